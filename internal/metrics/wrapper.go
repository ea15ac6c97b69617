package metrics

// MetricsWrapper adapts Metrics to the narrow interfaces the launcher and the
// readiness probe depend on.
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

func (w *MetricsWrapper) LaunchesInc() {
	w.m.LaunchesTotal.Inc()
}

func (w *MetricsWrapper) ChildFailuresInc() {
	w.m.ChildFailures.Inc()
}

func (w *MetricsWrapper) InterruptsInc() {
	w.m.Interrupts.Inc()
}

func (w *MetricsWrapper) ChildExitCodeSet(v float64) {
	w.m.ChildExitCode.Set(v)
}

func (w *MetricsWrapper) ChildUptimeObserve(v float64) {
	w.m.ChildUptime.Observe(v)
}

// ReadySet records the dashboard readiness state.
func (w *MetricsWrapper) ReadySet(ready bool) {
	if ready {
		w.m.DashboardReady.Set(1)
		return
	}
	w.m.DashboardReady.Set(0)
}

func (w *MetricsWrapper) ReadinessLatencyObserve(v float64) {
	w.m.ReadinessLatency.Observe(v)
}

func (w *MetricsWrapper) ProbeFailuresInc() {
	w.m.ReadyProbeFailures.Inc()
}
