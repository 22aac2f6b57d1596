package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsExpiredTotal,
		sweepRunsTotal,
		sweepFailuresTotal,
	)
}

var (
	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Total number of memberships expired by the sweep.",
		},
	)

	sweepRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_sweep_runs_total",
			Help: "Total number of expiration sweep runs.",
		},
	)

	sweepFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_sweep_failures_total",
			Help: "Total number of per-member failures recorded during sweeps.",
		},
	)
)

func IncSubscriptionsExpired(count int) {
	subscriptionsExpiredTotal.Add(float64(count))
}

func ObserveSweepRun(failures int) {
	sweepRunsTotal.Inc()
	sweepFailuresTotal.Add(float64(failures))
}
