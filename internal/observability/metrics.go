package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce     sync.Once
	requestsTotal    *prometheus.CounterVec
	latencySeconds   *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
	rewardsTotal     *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	cronRunsTotal    *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lessonhub_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lessonhub_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lessonhub_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		rewardsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lessonhub_rewards_posted_total",
			Help: "Total number of point transactions recorded, by reason.",
		}, []string{"reason"})

		submissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lessonhub_submissions_total",
			Help: "Total number of assignment submissions, by lesson type and outcome.",
		}, []string{"lesson_type", "outcome"})

		cronRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lessonhub_cron_runs_total",
			Help: "Total number of scheduled maintenance runs, by job and outcome.",
		}, []string{"job", "outcome"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, rewardsTotal, submissionsTotal, cronRunsTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// RewardsPosted exposes the counter for recorded point transactions.
func RewardsPosted() *prometheus.CounterVec {
	RegisterMetrics()
	return rewardsTotal
}

// Submissions exposes the counter for assignment submissions.
func Submissions() *prometheus.CounterVec {
	RegisterMetrics()
	return submissionsTotal
}

// CronRuns exposes the counter for scheduled maintenance runs.
func CronRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return cronRunsTotal
}
