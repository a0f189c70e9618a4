// Package metrics records run statistics in a private Prometheus registry.
//
// carlog is a one-shot process, so nothing is served over HTTP. When a
// metrics file is configured the registry is written in the node_exporter
// textfile collector format at the end of a run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager holds the metrics of a single run. A nil *Manager is valid and
// records nothing.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	rowsAdded      *prometheus.CounterVec
	rowsMismatched *prometheus.CounterVec
	findings       *prometheus.CounterVec
	tablesCreated  prometheus.Counter
	fuelEvents     prometheus.Gauge
	runDuration    prometheus.Gauge
	lastRunUnix    prometheus.Gauge
}

// NewManager creates a manager with its own registry unless one is given.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "carlog",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsAdded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rows_added_total",
		Help:      "Rows inserted during reconciliation, by table",
	}, []string{"table"})

	m.rowsMismatched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "rows_mismatched_total",
		Help:      "Declared rows whose stored value differs, by table",
	}, []string{"table"})

	m.findings = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "check_findings_total",
		Help:      "Findings reported by the validators, by check",
	}, []string{"check"})

	m.tablesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "tables_created_total",
		Help:      "Tables created by the schema bootstrap",
	})

	m.fuelEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "fuel_events",
		Help:      "Fuel events scanned for validation",
	})

	m.runDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of the last run",
	})

	m.lastRunUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished",
	})
}

// Registry returns the registry backing the manager.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Manager) RecordTableCreated() {
	if m == nil {
		return
	}
	m.tablesCreated.Inc()
}

func (m *Manager) RecordRowsAdded(table string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsAdded.WithLabelValues(table).Add(float64(n))
}

func (m *Manager) RecordRowsMismatched(table string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.rowsMismatched.WithLabelValues(table).Add(float64(n))
}

func (m *Manager) RecordFinding(check string) {
	if m == nil {
		return
	}
	m.findings.WithLabelValues(check).Inc()
}

func (m *Manager) SetFuelEvents(n int) {
	if m == nil {
		return
	}
	m.fuelEvents.Set(float64(n))
}

// ObserveRun records the duration and completion time of a run.
func (m *Manager) ObserveRun(d time.Duration, finished time.Time) {
	if m == nil {
		return
	}
	m.runDuration.Set(d.Seconds())
	m.lastRunUnix.Set(float64(finished.Unix()))
}

// WriteTextfile writes every metric to path. The file is replaced
// atomically by the Prometheus client.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
