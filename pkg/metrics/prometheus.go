package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProjectsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workforce_projects_created_total",
			Help: "Total number of projects created by category",
		},
		[]string{"category"},
	)

	ClaimAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workforce_claim_attempts_total",
			Help: "Team lead claim attempts by outcome",
		},
		[]string{"action", "outcome"},
	)

	Recalculations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workforce_recalculations_total",
			Help: "Total number of aggregate total recalculations persisted",
		},
	)

	PaymentsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workforce_payments_recorded_total",
			Help: "Payments recorded by method",
		},
		[]string{"method"},
	)

	NotificationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workforce_notifications_created_total",
			Help: "Notification rows created by type",
		},
		[]string{"type"},
	)
)
