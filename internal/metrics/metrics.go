// Package metrics exposes Prometheus collectors for the API server and cron runner.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "memberhub"

var registry = prometheus.NewRegistry()

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route template and status code.",
	}, []string{"method", "route", "status"})

	httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route template.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	businessEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "business_events_total",
		Help:      "Lifecycle events such as submissions, approvals and expiries.",
	}, []string{"action", "outcome"})

	sideEffectFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "side_effect_failures_total",
		Help:      "Best-effort side effects (notifications, payment calls) that failed and were swallowed.",
	}, []string{"operation"})

	externalCalls = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "external_call_duration_seconds",
		Help:      "Latency of calls to mail and payment providers.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"target", "operation", "outcome"})

	jobRuns = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Cron job run time by job and outcome.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300},
	}, []string{"job", "outcome"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpLatency,
		businessEvents,
		sideEffectFailures,
		externalCalls,
		jobRuns,
	)
}

// Handler returns the Prometheus /metrics handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordBusinessEvent counts lifecycle outcomes like "application_approved".
func RecordBusinessEvent(action string, success bool) {
	businessEvents.WithLabelValues(action, outcomeLabel(success)).Inc()
}

// RecordBusinessEvents adds n successful events at once (sweeps).
func RecordBusinessEvents(action string, n int) {
	if n <= 0 {
		return
	}
	businessEvents.WithLabelValues(action, outcomeLabel(true)).Add(float64(n))
}

func SideEffectFailed(operation string) {
	sideEffectFailures.WithLabelValues(operation).Inc()
}

// RecordExternalCall tracks latency and errors for downstream providers.
func RecordExternalCall(target, operation string, elapsed time.Duration, err error) {
	externalCalls.WithLabelValues(target, operation, outcomeLabel(err == nil)).Observe(elapsed.Seconds())
}

func RecordJob(job string, elapsed time.Duration, err error) {
	jobRuns.WithLabelValues(job, outcomeLabel(err == nil)).Observe(elapsed.Seconds())
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
