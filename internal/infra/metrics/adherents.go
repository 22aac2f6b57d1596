package metrics

import (
	"gym-club-management/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		adherentsTotal,
		adherentsRegisteredTotal,
	)
}

var (
	adherentsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "adherents_total",
			Help: "Current number of adherents by status.",
		},
		[]string{"status"}, // 'active', 'suspended', 'expired', 'deactivated'
	)

	adherentsRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adherents_registered_total",
			Help: "Total number of member registrations since start.",
		},
	)
)

func IncAdherentRegistered() {
	adherentsRegisteredTotal.Inc()
}

func SetAdherentsTotal(counts map[model.AdherentStatus]int) {
	statuses := []model.AdherentStatus{
		model.AdherentStatusActive,
		model.AdherentStatusSuspended,
		model.AdherentStatusExpired,
		model.AdherentStatusDeactivated,
	}
	for _, status := range statuses {
		if count, ok := counts[status]; ok {
			adherentsTotal.WithLabelValues(norm(string(status))).Set(float64(count))
		}
	}
}
