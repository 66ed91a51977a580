package logger

import "github.com/prometheus/client_golang/prometheus"

// NewPrometheusHandler returns a telemetry handler counting emitted log
// events per level, registered on the given registerer.
func NewPrometheusHandler(reg prometheus.Registerer) TelemetryHandler {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "basekit_log_events_total",
		Help: "Number of emitted log events by level.",
	}, []string{"level"})
	reg.MustRegister(events)

	return func(level string, _ []any) {
		events.WithLabelValues(level).Inc()
	}
}
