// Package metrics provides Prometheus metrics collection for the dashboard launcher.
// It tracks launches of the dashboard child process, how they ended, how long
// they ran and whether the dashboard became ready to serve requests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the launcher.
type Metrics struct {
	LaunchesTotal      prometheus.Counter   // Dashboard launches attempted
	ChildFailures      prometheus.Counter   // Launches that failed to spawn or exited non-zero
	Interrupts         prometheus.Counter   // Launches ended by a user interrupt
	ChildExitCode      prometheus.Gauge     // Exit code of the most recent child
	ChildUptime        prometheus.Histogram // Wall time the child ran for
	DashboardReady     prometheus.Gauge     // 1 once the dashboard health endpoint answered
	ReadinessLatency   prometheus.Histogram // Time from launch until the dashboard was ready
	ReadyProbeFailures prometheus.Counter   // Failed readiness probe attempts
}

// New creates and registers all Prometheus metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		LaunchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "launcher_launches_total",
			Help: "Total number of dashboard launches",
		}),
		ChildFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "launcher_child_failures_total",
			Help: "Total number of dashboard processes that failed to start or exited non-zero",
		}),
		Interrupts: factory.NewCounter(prometheus.CounterOpts{
			Name: "launcher_interrupts_total",
			Help: "Total number of launches ended by an interrupt",
		}),
		ChildExitCode: factory.NewGauge(prometheus.GaugeOpts{
			Name: "launcher_child_exit_code",
			Help: "Exit code of the most recent dashboard process",
		}),
		ChildUptime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "launcher_child_uptime_seconds",
			Help:    "How long the dashboard process ran in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 4, 10),
		}),
		DashboardReady: factory.NewGauge(prometheus.GaugeOpts{
			Name: "launcher_dashboard_ready",
			Help: "Whether the dashboard health endpoint has answered (1) or not (0)",
		}),
		ReadinessLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "launcher_readiness_latency_seconds",
			Help:    "Time from launch until the dashboard answered its health endpoint",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		}),
		ReadyProbeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "launcher_ready_probe_failures_total",
			Help: "Total number of failed readiness probe attempts",
		}),
	}
}
