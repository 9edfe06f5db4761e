package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ErlanBelekov/habit-tracker/internal/health"
)

var (
	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "habits",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habits",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	// GraphQL metrics

	FieldResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habits",
		Name:      "field_resolutions_total",
		Help:      "Resolved GraphQL fields, by field and outcome.",
	}, []string{"field", "outcome"})

	FieldResolutionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "habits",
		Name:      "field_resolution_duration_seconds",
		Help:      "Duration of individual field resolutions.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"field"})

	// Token verification metrics

	JWKSFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habits",
		Name:      "jwks_fetches_total",
		Help:      "Outbound key-set fetches, by outcome.",
	}, []string{"outcome"})

	SigningKeysCached = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "habits",
		Name:      "signing_keys_cached",
		Help:      "Number of verification keys in the process-wide cache.",
	})

	AuthRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "habits",
		Name:      "auth_rejections_total",
		Help:      "Requests rejected before resolution, by reason.",
	}, []string{"reason"})
)

func Register() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		FieldResolutionsTotal,
		FieldResolutionDuration,
		JWKSFetchesTotal,
		SigningKeysCached,
		AuthRejectionsTotal,
	)
}

// NewServer exposes /metrics plus liveness and readiness probes on a
// dedicated port, kept off the public listener.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
