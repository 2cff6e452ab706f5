package metrics

import "github.com/prometheus/client_golang/prometheus"

// SessionCountFunc returns the number of live sessions without importing the
// auth package.
type SessionCountFunc func() int

// sessionsCollector implements prometheus.Collector for the session gauge.
type sessionsCollector struct {
	countFunc SessionCountFunc
	desc      *prometheus.Desc
}

// NewSessionsCollector creates a collector that exposes the live session
// count as a gauge.
func NewSessionsCollector(countFunc SessionCountFunc) prometheus.Collector {
	return &sessionsCollector{
		countFunc: countFunc,
		desc: prometheus.NewDesc(
			"shiftdesk_active_sessions",
			"Number of live login sessions.",
			nil, nil,
		),
	}
}

// Describe sends the descriptor of the metric to the channel.
func (c *sessionsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect reads the current session count and emits the gauge.
func (c *sessionsCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.countFunc()))
}
