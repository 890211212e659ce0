package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for coupon_distributions_total.
const (
	OutcomeExact          = "exact"
	OutcomeExhausted      = "exhausted"
	OutcomeInfeasibleLow  = "infeasible_low"
	OutcomeInfeasibleHigh = "infeasible_high"
	OutcomeInvalid        = "invalid"
)

// Recorder tracks generation outcomes on a registry owned by one application instance.
type Recorder struct {
	registry           *prometheus.Registry
	distributions      *prometheus.CounterVec
	rounds             prometheus.Histogram
	alternativesFound  prometheus.Histogram
	alternativeAttempt prometheus.Histogram
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// New builds a Recorder with its own registry, including Go runtime and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Recorder{
		registry: reg,
		distributions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coupon_distributions_total",
			Help: "Primary distribution requests by outcome.",
		}, []string{"outcome"}),
		rounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coupon_adjustment_rounds",
			Help:    "Adjustment rounds spent by the final generation attempt.",
			Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 500, 1000},
		}),
		alternativesFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coupon_alternatives_found",
			Help:    "Distinct alternatives collected per request.",
			Buckets: prometheus.LinearBuckets(0, 1, 6),
		}),
		alternativeAttempt: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coupon_alternative_attempts",
			Help:    "Generator invocations spent collecting alternatives.",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coupon_http_requests_total",
			Help: "HTTP requests served by route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "coupon_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	reg.MustRegister(
		r.distributions,
		r.rounds,
		r.alternativesFound,
		r.alternativeAttempt,
		r.requests,
		r.requestDuration,
	)
	return r
}

// ObserveDistribution records the outcome of a primary distribution request.
// rounds is ignored unless the search actually ran.
func (r *Recorder) ObserveDistribution(outcome string, rounds int) {
	if r == nil {
		return
	}
	r.distributions.WithLabelValues(outcome).Inc()
	if outcome == OutcomeExact || outcome == OutcomeExhausted {
		r.rounds.Observe(float64(rounds))
	}
}

// ObserveAlternatives records the size of an alternative set and the attempts it took.
func (r *Recorder) ObserveAlternatives(found, attempts int) {
	if r == nil {
		return
	}
	r.alternativesFound.Observe(float64(found))
	r.alternativeAttempt.Observe(float64(attempts))
}

// ObserveRequest records one served HTTP request. route should be the matched
// mux pattern so label cardinality stays bounded.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, primarily for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
