package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors is safe to use as a nil pointer; every method is then a no-op.
type Collectors struct {
	unitsOfWork *prometheus.CounterVec
	history     *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		unitsOfWork: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labcore",
			Name:      "uow_total",
			Help:      "Units of work by outcome (committed, rolled_back, commit_failed).",
		}, []string{"outcome"}),
		history: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labcore",
			Name:      "booking_history_total",
			Help:      "Booking history rows appended, by action.",
		}, []string{"action"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "labcore",
			Name:      "store_errors_total",
			Help:      "Failed units of work by error kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(c.unitsOfWork, c.history, c.storeErrors)
	}
	return c
}

func (c *Collectors) ObserveUnit(outcome string) {
	if c == nil {
		return
	}
	c.unitsOfWork.WithLabelValues(outcome).Inc()
}

func (c *Collectors) ObserveHistory(action string) {
	if c == nil {
		return
	}
	c.history.WithLabelValues(action).Inc()
}

func (c *Collectors) ObserveError(kind string) {
	if c == nil {
		return
	}
	c.storeErrors.WithLabelValues(kind).Inc()
}

func (c *Collectors) UnitsOfWork() *prometheus.CounterVec { return c.unitsOfWork }
func (c *Collectors) History() *prometheus.CounterVec     { return c.history }
func (c *Collectors) StoreErrors() *prometheus.CounterVec { return c.storeErrors }
