package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics shared across domain services.
type Metrics struct {
	EntitiesCreated  *prometheus.CounterVec
	EntitiesDeleted  *prometheus.CounterVec
	ValueDeltasTotal prometheus.Counter
	ValueDeltaErrors prometheus.Counter
	CascadeDeletes   *prometheus.CounterVec
	CriteriaResolved prometheus.Counter
	SizingComputed   prometheus.Counter
	AuditTransitions *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EntitiesCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealeraudit_entities_created_total",
			Help: "Entities created, by hierarchy level or master-data kind",
		}, []string{"kind"}),
		EntitiesDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealeraudit_entities_deleted_total",
			Help: "Entities deleted, by kind",
		}, []string{"kind"}),
		ValueDeltasTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealeraudit_value_deltas_total",
			Help: "Ancestor-chain value delta propagations",
		}),
		ValueDeltaErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealeraudit_value_delta_errors_total",
			Help: "Failed ancestor-chain value updates (partial application)",
		}),
		CascadeDeletes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealeraudit_cascade_deletes_total",
			Help: "Cascade delete operations, by root kind",
		}, []string{"kind"}),
		CriteriaResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealeraudit_criteria_resolutions_total",
			Help: "Applicable-criteria resolutions performed",
		}),
		SizingComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealeraudit_sizing_computations_total",
			Help: "Sizing engine computations performed",
		}),
		AuditTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dealeraudit_audit_transitions_total",
			Help: "Audit status transitions, by target status",
		}, []string{"status"}),
	}
}
