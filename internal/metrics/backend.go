package metrics

import "github.com/prometheus/client_golang/prometheus"

// Document store Prometheus metrics.
var (
	FirestoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "odhiyaty",
			Name:      "firestore_requests_total",
			Help:      "Total number of document store requests",
		},
		[]string{"op", "status"}, // status: HTTP code or "error"
	)

	FirestoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "odhiyaty",
			Name:      "firestore_request_duration_seconds",
			Help:      "Document store request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"op"},
	)
)

// Email delivery Prometheus metrics.
var (
	EmailSendsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "odhiyaty",
			Name:      "email_sends_total",
			Help:      "Total number of email send attempts",
		},
		[]string{"provider", "kind", "status"}, // status: "ok" / "error"
	)

	EmailSendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "odhiyaty",
			Name:      "email_send_duration_seconds",
			Help:      "Email send duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	CodeSendsThrottledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "odhiyaty",
			Name:      "code_sends_throttled_total",
			Help:      "Code emails refused by the per-address throttle",
		},
	)
)

var backendMetricsRegistered bool

// RegisterBackendMetrics registers document store and email metrics. Must be called once from main.
func RegisterBackendMetrics() {
	if backendMetricsRegistered {
		return
	}
	prometheus.MustRegister(FirestoreRequestsTotal)
	prometheus.MustRegister(FirestoreRequestDuration)
	prometheus.MustRegister(EmailSendsTotal)
	prometheus.MustRegister(EmailSendDuration)
	prometheus.MustRegister(CodeSendsThrottledTotal)
	backendMetricsRegistered = true
}
