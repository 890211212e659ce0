package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/coupon-distributor/internal/distribution"
	"github.com/eugenenazirov/coupon-distributor/internal/metrics"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

const (
	defaultMaxCoupons      = 500
	defaultMaxAlternatives = 5
)

// Handler wires the distribution generator into HTTP handlers.
type Handler struct {
	distributor distribution.Distributor
	recorder    *metrics.Recorder
	logger      *zap.Logger

	maxCoupons      int
	maxAlternatives int

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithMetrics records generation outcomes and exposes them on /api/metrics.
func WithMetrics(rec *metrics.Recorder) HandlerOption {
	return func(h *Handler) {
		h.recorder = rec
	}
}

// WithHandlerLogger sets the logger used for per-request generation details.
func WithHandlerLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithLimits bounds the accepted coupon count and the number of alternatives returned.
func WithLimits(maxCoupons, maxAlternatives int) HandlerOption {
	return func(h *Handler) {
		if maxCoupons > 0 {
			h.maxCoupons = maxCoupons
		}
		if maxAlternatives >= 0 {
			h.maxAlternatives = maxAlternatives
		}
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(dist distribution.Distributor, opts ...HandlerOption) *Handler {
	h := &Handler{
		distributor:     dist,
		logger:          zap.NewNop(),
		maxCoupons:      defaultMaxCoupons,
		maxAlternatives: defaultMaxAlternatives,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetDenominations(w http.ResponseWriter, r *http.Request) {
	_ = r
	set := h.distributor.Denominations()
	resp := denominationsResponse{
		Denominations:   set.Values(),
		Min:             set.Min(),
		Max:             set.Max(),
		MaxCoupons:      h.maxCoupons,
		MaxAlternatives: h.maxAlternatives,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		writeError(w, http.StatusNotFound, "Not found", "metrics are disabled")
		return
	}
	h.recorder.Handler().ServeHTTP(w, r)
}

func (h *Handler) handleDistribute(w http.ResponseWriter, r *http.Request) {
	var req distributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.recorder.ObserveDistribution(metrics.OutcomeInvalid, 0)
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if req.TargetAmount <= 0 {
		h.recorder.ObserveDistribution(metrics.OutcomeInvalid, 0)
		writeError(w, http.StatusBadRequest, "Invalid request", "targetAmount must be a positive integer")
		return
	}
	if req.NumCoupons <= 0 || req.NumCoupons > h.maxCoupons {
		h.recorder.ObserveDistribution(metrics.OutcomeInvalid, 0)
		writeError(w, http.StatusBadRequest, "Invalid request",
			fmt.Sprintf("numCoupons must be between 1 and %d", h.maxCoupons))
		return
	}

	limit := h.maxAlternatives
	if req.Alternatives != nil {
		if *req.Alternatives < 0 {
			h.recorder.ObserveDistribution(metrics.OutcomeInvalid, 0)
			writeError(w, http.StatusBadRequest, "Invalid request", "alternatives must not be negative")
			return
		}
		limit = min(*req.Alternatives, h.maxAlternatives)
	}

	start := time.Now()
	result, err := h.distributor.Distribute(req.TargetAmount, req.NumCoupons)
	if err != nil {
		h.writeDistributeError(w, r, req, result, err)
		return
	}
	h.recorder.ObserveDistribution(metrics.OutcomeExact, result.Rounds)

	alts, err := h.distributor.BuildAlternatives(req.TargetAmount, req.NumCoupons, limit)
	if err != nil {
		writeInternalError(w, err)
		return
	}
	h.recorder.ObserveAlternatives(len(alts.Distributions), alts.Attempts)
	elapsed := time.Since(start)

	h.logger.Debug("distribution generated",
		zap.Int("target", req.TargetAmount),
		zap.Int("coupons", req.NumCoupons),
		zap.Int("attempts", result.Attempts),
		zap.Int("rounds", result.Rounds),
		zap.Int("alternatives", len(alts.Distributions)),
		zap.String("request_id", requestIDFromContext(r.Context())),
	)

	resp := distributeResponse{
		RequestID:           requestIDFromContext(r.Context()),
		TargetAmount:        req.TargetAmount,
		NumCoupons:          req.NumCoupons,
		Distribution:        newDistributionPayload(result.Values),
		Alternatives:        make([]distributionPayload, 0, len(alts.Distributions)),
		Attempts:            result.Attempts,
		Rounds:              result.Rounds,
		AlternativeAttempts: alts.Attempts,
		CalculationTimeMs:   elapsed.Milliseconds(),
	}
	for _, values := range alts.Distributions {
		resp.Alternatives = append(resp.Alternatives, newDistributionPayload(values))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeDistributeError(w http.ResponseWriter, r *http.Request, req distributeRequest, result distribution.Result, err error) {
	set := h.distributor.Denominations()

	switch {
	case errors.Is(err, distribution.ErrInfeasibleLow):
		h.recorder.ObserveDistribution(metrics.OutcomeInfeasibleLow, 0)
		suggestion := fmt.Sprintf("Minimum required: %d for %d coupons", set.Min()*req.NumCoupons, req.NumCoupons)
		writeError(w, http.StatusUnprocessableEntity, "Target amount too low", err.Error(), suggestion)
	case errors.Is(err, distribution.ErrInfeasibleHigh):
		h.recorder.ObserveDistribution(metrics.OutcomeInfeasibleHigh, 0)
		suggestion := fmt.Sprintf("Maximum possible: %d for %d coupons", set.Max()*req.NumCoupons, req.NumCoupons)
		writeError(w, http.StatusUnprocessableEntity, "Target amount too high", err.Error(), suggestion)
	case errors.Is(err, distribution.ErrSearchExhausted):
		h.recorder.ObserveDistribution(metrics.OutcomeExhausted, result.Rounds)
		h.logger.Info("distribution search exhausted",
			zap.Int("target", req.TargetAmount),
			zap.Int("coupons", req.NumCoupons),
			zap.Int("attempts", result.Attempts),
			zap.String("request_id", requestIDFromContext(r.Context())),
		)
		writeError(w, http.StatusUnprocessableEntity, "Cannot distribute exactly", err.Error(),
			"Try adjusting the target amount")
	case errors.Is(err, distribution.ErrInvalidTarget), errors.Is(err, distribution.ErrInvalidCount):
		h.recorder.ObserveDistribution(metrics.OutcomeInvalid, 0)
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	default:
		writeInternalError(w, err)
	}
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func newDistributionPayload(values []int) distributionPayload {
	return distributionPayload{
		Values:  values,
		Summary: distribution.Summarize(values),
	}
}

type distributeRequest struct {
	TargetAmount int  `json:"targetAmount"`
	NumCoupons   int  `json:"numCoupons"`
	Alternatives *int `json:"alternatives,omitempty"`
}

type distributionPayload struct {
	Values  []int                `json:"values"`
	Summary distribution.Summary `json:"summary"`
}

type distributeResponse struct {
	RequestID           string                `json:"requestId,omitempty"`
	TargetAmount        int                   `json:"targetAmount"`
	NumCoupons          int                   `json:"numCoupons"`
	Distribution        distributionPayload   `json:"distribution"`
	Alternatives        []distributionPayload `json:"alternatives"`
	Attempts            int                   `json:"attempts"`
	Rounds              int                   `json:"rounds"`
	AlternativeAttempts int                   `json:"alternativeAttempts"`
	CalculationTimeMs   int64                 `json:"calculationTimeMs"`
}

type denominationsResponse struct {
	Denominations   []int `json:"denominations"`
	Min             int   `json:"min"`
	Max             int   `json:"max"`
	MaxCoupons      int   `json:"maxCoupons"`
	MaxAlternatives int   `json:"maxAlternatives"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
