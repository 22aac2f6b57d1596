package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(sessionBookingsTotal)
}

var sessionBookingsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "session_bookings_total",
		Help: "Session booking attempts by outcome.",
	},
	[]string{"outcome"}, // 'booked', 'cancelled', 'refused'
)

func IncSessionBooking(outcome string) {
	sessionBookingsTotal.WithLabelValues(norm(outcome)).Inc()
}
