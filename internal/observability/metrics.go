package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	clientRequestsTotal  *prometheus.CounterVec
	clientLatencySeconds *prometheus.HistogramVec
	clientErrorsTotal    *prometheus.CounterVec
	uploadsRejectedTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used for client
// observability.
func RegisterMetrics() {
	registerOnce.Do(func() {
		clientRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brainink_client_requests_total",
			Help: "Total number of API requests issued by the client.",
		}, []string{"method", "status"})

		clientLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brainink_client_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method"})

		clientErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brainink_client_errors_total",
			Help: "Total number of failed API requests.",
		}, []string{"method", "kind"})

		uploadsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "brainink_uploads_rejected_total",
			Help: "Total number of uploads rejected by client-side validation.",
		}, []string{"reason"})

		prometheus.MustRegister(clientRequestsTotal, clientLatencySeconds, clientErrorsTotal, uploadsRejectedTotal)
	})
}

// ClientRequests exposes the counter for issued requests.
func ClientRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return clientRequestsTotal
}

// ClientLatency exposes the latency histogram for requests.
func ClientLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return clientLatencySeconds
}

// ClientErrors exposes the counter for failed requests.
func ClientErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return clientErrorsTotal
}

// UploadsRejected exposes the counter for validation rejections.
func UploadsRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadsRejectedTotal
}
