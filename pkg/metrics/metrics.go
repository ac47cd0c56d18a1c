package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation outcomes
const (
	OutcomeOK       = "ok"
	OutcomeDenied   = "denied"
	OutcomeConflict = "conflict"
	OutcomeInvalid  = "invalid"
	OutcomeMissing  = "not_found"
)

// Metrics holds all workflow engine metrics
type Metrics struct {
	Operations           *prometheus.CounterVec
	Conflicts            prometheus.Counter
	NotificationsCreated prometheus.Counter
	StoreWriteFailures   *prometheus.CounterVec
	RecordsActive        prometheus.Gauge
}

// New creates and registers all metrics against the given registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_operations_total",
			Help:      "Workflow operations by name and outcome",
		}, []string{"operation", "outcome"}),
		Conflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_conflicts_total",
			Help:      "Operations rejected because a clinical history was unavailable",
		}),
		NotificationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Notifications emitted by workflow resolutions",
		}),
		StoreWriteFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_write_failures_total",
			Help:      "Best-effort snapshot writes that failed, by slot",
		}, []string{"slot"}),
		RecordsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_active",
			Help:      "Records currently loaned out or pending return",
		}),
	}
}

// NewNop returns metrics bound to a throwaway registry, useful in tests.
func NewNop() *Metrics {
	return New("custodia", prometheus.NewRegistry())
}
