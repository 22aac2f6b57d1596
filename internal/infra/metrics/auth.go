package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(loginAttemptsTotal) }

var loginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "login_attempts_total",
		Help: "Login attempts by outcome.",
	},
	[]string{"outcome"}, // 'success', 'failed', 'throttled'
)

func IncLoginAttempt(outcome string) {
	loginAttemptsTotal.WithLabelValues(norm(outcome)).Inc()
}
