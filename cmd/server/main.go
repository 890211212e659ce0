package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/coupon-distributor/internal/application"
	"github.com/eugenenazirov/coupon-distributor/internal/config"
	"github.com/eugenenazirov/coupon-distributor/internal/logging"
	"github.com/eugenenazirov/coupon-distributor/internal/report"
)

var signalNotify = signal.Notify

type globalFlags struct {
	configFile       *string
	envFile          *string
	port             *string
	denominationsStr *string
	maxCoupons       *int
	maxAlternatives  *int
	seed             *uint64
	seedSet          *bool
	logLevel         *string
	rateLimitRPS     *float64
	rateLimitBurst   *int
}

type generateFlags struct {
	target       *int
	coupons      *int
	alternatives *int
}

func main() {
	kingpinApp := kingpin.New("coupon-distributor", "Coupon Distributor - splits a target amount into coupons of fixed denominations")

	flags := registerGlobalFlags(kingpinApp)

	serveCmd := kingpinApp.Command("serve", "Run the HTTP service").Default()

	generateCmd := kingpinApp.Command("generate", "Print a distribution and its alternatives to stdout")
	gen := generateFlags{
		target:       generateCmd.Flag("target", "Target amount to distribute").Required().Int(),
		coupons:      generateCmd.Flag("coupons", "Number of coupons").Required().Int(),
		alternatives: generateCmd.Flag("alternatives", "Alternatives to list (defaults to max-alternatives)").Default("-1").Int(),
	}

	command := kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(flags.overrides())
	if err != nil {
		kingpinApp.Fatalf("failed to load configuration: %v", err)
	}

	switch command {
	case serveCmd.FullCommand():
		serve(cfg)
	case generateCmd.FullCommand():
		if err := generate(os.Stdout, cfg, gen); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func registerGlobalFlags(app *kingpin.Application) globalFlags {
	seedSet := new(bool)
	return globalFlags{
		configFile:       app.Flag("config", "Path to YAML configuration file").String(),
		envFile:          app.Flag("env-file", "Path to a dotenv file (defaults to .env when present)").String(),
		port:             app.Flag("port", "HTTP port exposed by the service").String(),
		denominationsStr: app.Flag("denominations", "Comma-separated coupon denominations").String(),
		maxCoupons:       app.Flag("max-coupons", "Largest coupon count accepted per request").Default("-1").Int(),
		maxAlternatives:  app.Flag("max-alternatives", "Largest number of alternative distributions returned").Default("-1").Int(),
		seed:             app.Flag("seed", "Seed for reproducible generation (0 picks a random seed)").IsSetByUser(seedSet).Default("0").Uint64(),
		seedSet:          seedSet,
		logLevel:         app.Flag("log-level", "Log level (debug, info, warn, error)").String(),
		rateLimitRPS:     app.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64(),
		rateLimitBurst:   app.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int(),
	}
}

func (f globalFlags) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *f.configFile,
		EnvFile:    *f.envFile,
	}

	if *f.port != "" {
		overrides.Port = f.port
	}
	if *f.denominationsStr != "" {
		overrides.DenominationsStr = f.denominationsStr
	}
	if *f.maxCoupons >= 0 {
		overrides.MaxCoupons = f.maxCoupons
	}
	if *f.maxAlternatives >= 0 {
		overrides.MaxAlternatives = f.maxAlternatives
	}
	// An explicit --seed 0 restores random generation over a configured seed.
	if *f.seedSet {
		overrides.Seed = f.seed
	}
	if *f.logLevel != "" {
		overrides.LogLevel = f.logLevel
	}
	if *f.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = f.rateLimitRPS
	}
	if *f.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = f.rateLimitBurst
	}

	return overrides
}

func serve(cfg config.Config) {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

// generate writes the primary distribution for the requested target followed
// by up to the configured number of distinct alternatives.
func generate(w io.Writer, cfg config.Config, flags generateFlags) error {
	if *flags.coupons > cfg.MaxCoupons {
		return fmt.Errorf("coupons must be between 1 and %d", cfg.MaxCoupons)
	}

	limit := cfg.MaxAlternatives
	if *flags.alternatives >= 0 {
		limit = *flags.alternatives
	}

	gen, err := application.NewGenerator(cfg)
	if err != nil {
		return err
	}

	result, err := gen.Distribute(*flags.target, *flags.coupons)
	if err != nil {
		return fmt.Errorf("generate distribution: %w", err)
	}

	alts, err := gen.BuildAlternatives(*flags.target, *flags.coupons, limit)
	if err != nil {
		return fmt.Errorf("build alternatives: %w", err)
	}

	return report.New().Render(w, result, alts)
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
