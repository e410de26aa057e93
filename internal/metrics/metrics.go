package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdmissionsTotal counts admit outcomes: admitted, rejected, conflict.
	AdmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "equipbook",
		Name:      "admissions_total",
		Help:      "Reservation admission attempts by outcome.",
	}, []string{"outcome"})

	// PolicyRejectionsTotal counts policy rejections by violation type.
	PolicyRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "equipbook",
		Name:      "policy_rejections_total",
		Help:      "Policy rule rejections by violation type.",
	}, []string{"violation_type"})

	// RoutingDecisionsTotal counts cross-department routing outcomes.
	RoutingDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "equipbook",
		Name:      "routing_decisions_total",
		Help:      "Cross-department routing decisions by mode.",
	}, []string{"mode"})

	// AdmissionRetriesTotal counts commit-conflict retries of the admission
	// transaction. A climbing rate signals contention on popular items.
	AdmissionRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "equipbook",
		Name:      "admission_retries_total",
		Help:      "Admission transactions retried after a commit-time conflict.",
	})

	// OverdueFinesMarkedTotal counts fines promoted by the periodic sweep.
	OverdueFinesMarkedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "equipbook",
		Name:      "overdue_fines_marked_total",
		Help:      "Fines promoted to OVERDUE by the periodic sweep.",
	})
)
