package storefront

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"MiniCart/internal/catalog"
)

type appMetrics struct {
	sessions     prometheus.Gauge
	catalogLoads *prometheus.CounterVec
	cartActions  *prometheus.CounterVec
}

func newAppMetrics(reg prometheus.Registerer) *appMetrics {
	m := &appMetrics{
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "minicart_sessions_active",
			Help: "Mounted storefront sessions",
		}),
		catalogLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minicart_catalog_loads_total",
			Help: "Catalog loads by outcome",
		}, []string{"outcome"}),
		cartActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "minicart_cart_actions_total",
			Help: "Cart actions dispatched by kind",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(m.sessions, m.catalogLoads, m.cartActions)
	}
	return m
}

func loadOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, catalog.ErrDetached):
		return "detached"
	case errors.Is(err, catalog.ErrBadStatus):
		return "bad_status"
	case errors.Is(err, catalog.ErrDecode):
		return "bad_payload"
	default:
		return "unavailable"
	}
}

// Instrument registers the session and cart metrics on reg. Call it before
// the first Mount.
func (s *Sessions) Instrument(reg prometheus.Registerer) {
	s.metrics = newAppMetrics(reg)
}
