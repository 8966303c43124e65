package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "inride"

// Metrics holds the platform's Prometheus collectors.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	OffersSubmitted   prometheus.Counter
	OffersAccepted    prometheus.Counter
	BookingsCompleted prometheus.Counter
	BookingsCancelled prometheus.Counter
	CommissionTotal   prometheus.Counter
	OracleFallbacks   prometheus.Counter
}

// New registers the platform collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created.",
		}),
		OffersSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_submitted_total",
			Help:      "Driver offers submitted.",
		}),
		OffersAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_accepted_total",
			Help:      "Driver offers accepted by customers.",
		}),
		BookingsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_completed_total",
			Help:      "Bookings completed.",
		}),
		BookingsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled.",
		}),
		CommissionTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_collected_total",
			Help:      "Commission collected on completed trips, in currency units.",
		}),
		OracleFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_fallbacks_total",
			Help:      "Oracle calls answered by the deterministic fallback.",
		}),
	}
}
