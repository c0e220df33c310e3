package storefront

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"MiniCart/pkg/kit"
)

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string

	// CartRateLimit caps cart mutations per client IP per minute; 0 disables it.
	CartRateLimit int
	// PageRateLimit caps page loads, and so session mounts, per client IP per
	// minute; 0 disables it.
	PageRateLimit int
}

const limitWindow = time.Minute

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, s, deps)
	setupRoutes(r, s, deps)

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, s *Server, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	s.Sessions.Instrument(deps.Registry)

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", kit.MetricsHandler(deps.Registry))
}

func setupRoutes(r *chi.Mux, s *Server, deps HTTPDeps) {
	cartLimiter := kit.NewIPRateLimiter(deps.CartRateLimit, limitWindow)
	pageLimiter := kit.NewIPRateLimiter(deps.PageRateLimit, limitWindow)
	s.limiters = append(s.limiters, cartLimiter, pageLimiter)

	r.Get("/healthz", healthz)
	r.Get("/readyz", healthz)

	r.With(pageLimiter.Middleware).Get("/", s.page)

	r.Route("/api", func(api chi.Router) {
		api.Use(s.withSession)

		api.Get("/state", s.state)

		api.Group(func(mut chi.Router) {
			mut.Use(cartLimiter.Middleware)
			mut.Post("/cart/items", s.addItem)
			mut.Delete("/cart/items/{id}", s.removeItem)
		})
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Run sweeps idle sessions and stale rate-limit entries every interval until
// ctx is done, then tears down every remaining session.
func (s *Server) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Sessions.Close()
			return nil
		case <-t.C:
			s.Sessions.Sweep()
			for _, l := range s.limiters {
				l.Sweep()
			}
		}
	}
}
