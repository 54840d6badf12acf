// Package promlog counts the writes that reach bufferedlogger destinations.
//
// Wrap each shared destination once at startup and hand the wrapped value to
// the request loggers:
//
//	metrics := promlog.NewMetrics(prometheus.DefaultRegisterer)
//	errorsDest := metrics.Instrument("errors", errorLogger)
//
// All metric operations are safe for concurrent use.
package promlog

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gourdian25/bufferedlogger"
)

const metricsNamespace = "bufferedlogger"

// Write kinds used for the "kind" label.
const (
	KindRouted    = "routed"
	KindDuplicate = "duplicate"
)

// Metrics holds the destination counters.
type Metrics struct {
	// WritesTotal counts writes by destination, level and kind.
	// Labels: destination, level (DEBUG..FATAL), kind (routed, duplicate)
	WritesTotal *prometheus.CounterVec

	// FaultsTotal counts writes that carried a fault.
	// Labels: destination, fault_type
	FaultsTotal *prometheus.CounterVec
}

// NewMetrics registers the counters with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		WritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "destination",
			Name:      "writes_total",
			Help:      "Writes delivered to a destination by level and kind",
		}, []string{"destination", "level", "kind"}),
		FaultsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "destination",
			Name:      "faults_total",
			Help:      "Fault writes delivered to a destination by fault type",
		}, []string{"destination", "fault_type"}),
	}
}

// Instrument returns a Destination that counts every write before passing
// it on to dest.
func (m *Metrics) Instrument(name string, dest bufferedlogger.Destination) bufferedlogger.Destination {
	return &instrumented{name: name, next: dest, metrics: m}
}

type instrumented struct {
	name    string
	next    bufferedlogger.Destination
	metrics *Metrics
}

func (d *instrumented) IsEnabled(level bufferedlogger.LogLevel) bool {
	return d.next.IsEnabled(level)
}

func (d *instrumented) Write(level bufferedlogger.LogLevel, message string, fault error) {
	d.count(level, KindRouted, fault)
	d.next.Write(level, message, fault)
}

func (d *instrumented) WriteError(message string, fault error) {
	d.count(bufferedlogger.ERROR, KindDuplicate, fault)
	d.next.WriteError(message, fault)
}

func (d *instrumented) count(level bufferedlogger.LogLevel, kind string, fault error) {
	d.metrics.WritesTotal.WithLabelValues(d.name, level.String(), kind).Inc()
	if fault != nil {
		d.metrics.FaultsTotal.WithLabelValues(d.name, fmt.Sprintf("%T", fault)).Inc()
	}
}
