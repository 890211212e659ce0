package application

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/coupon-distributor/internal/api"
	"github.com/eugenenazirov/coupon-distributor/internal/config"
	"github.com/eugenenazirov/coupon-distributor/internal/denomination"
	"github.com/eugenenazirov/coupon-distributor/internal/distribution"
	"github.com/eugenenazirov/coupon-distributor/internal/metrics"
	"github.com/eugenenazirov/coupon-distributor/web"
)

// App owns the generator, metrics, HTTP handlers and server for one process.
type App struct {
	generator *distribution.Generator
	recorder  *metrics.Recorder
	handler   *api.Handler
	router    http.Handler
	logger    *zap.Logger
	server    *http.Server
	listener  net.Listener
}

// NewGenerator builds the distribution generator described by cfg. A zero
// seed draws from the process-wide random source.
func NewGenerator(cfg config.Config) (*distribution.Generator, error) {
	set, err := denomination.New(cfg.Denominations)
	if err != nil {
		return nil, fmt.Errorf("failed to apply denominations: %w", err)
	}

	opts := []distribution.Option{
		distribution.WithMaxRounds(cfg.MaxRounds),
		distribution.WithMaxAttempts(cfg.MaxAttempts),
	}
	if cfg.Seed != 0 {
		opts = append(opts, distribution.WithSource(distribution.NewSource(cfg.Seed)))
	}
	return distribution.New(set, opts...), nil
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	gen, err := NewGenerator(cfg)
	if err != nil {
		return nil, err
	}

	recorder := metrics.New()
	handler := api.NewHandler(gen,
		api.WithMetrics(recorder),
		api.WithHandlerLogger(logger),
		api.WithLimits(cfg.MaxCoupons, cfg.MaxAlternatives),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		api.WithRequestMetrics(recorder),
	)

	rootHandler, err := BuildRootHandler(apiRouter)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	return &App{
		generator: gen,
		recorder:  recorder,
		handler:   handler,
		router:    apiRouter,
		logger:    logger,
		server:    NewServer(cfg, rootHandler),
	}, nil
}

// BuildRootHandler mounts the API under /api/, the embedded static assets
// under /static/, and the single-page UI at the root path.
func BuildRootHandler(apiHandler http.Handler) (http.Handler, error) {
	static, err := fs.Sub(web.Assets, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	index, err := fs.ReadFile(web.Assets, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(index)
	})
	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start binds the configured address and serves in the background. Bind
// failures are returned to the caller instead of terminating the process.
func (a *App) Start() error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	a.listener = ln

	a.logger.Info("server listening",
		zap.String("addr", ln.Addr().String()),
		zap.Ints("denominations", a.generator.Denominations().Values()),
	)
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Addr reports the bound listener address, or the configured one before Start.
func (a *App) Addr() string {
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return a.server.Addr
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
