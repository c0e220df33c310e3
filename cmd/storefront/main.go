package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"MiniCart/internal/catalog"
	"MiniCart/internal/config"
	"MiniCart/internal/storefront"
	"MiniCart/pkg/kit"
)

const sweepInterval = time.Minute

func main() {
	service := "storefront"

	cfg, err := config.Load()
	if err != nil {
		kit.NewLogger(service).Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLoggerLevel(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	if err := cfg.ValidateServer(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	src, err := catalog.Open(cfg.CatalogURL, cfg.CatalogTimeout, log)
	if err != nil {
		log.Fatal("init catalog source failed", zap.Error(err))
	}

	sessions := storefront.NewSessions(catalog.NewLoader(src, log), cfg.SessionTTL, log)
	sessions.Max = cfg.MaxSessions

	s := &storefront.Server{
		Sessions: sessions,
		Tokens:   storefront.NewTokenMaker(cfg.SessionSecret, cfg.SessionTTL),
		Log:      log,
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		CartRateLimit:  cfg.CartRateLimit,
		PageRateLimit:  cfg.PageRateLimit,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return kit.RunHTTPServer(ctx, cfg.Addr(), h, log) })
	g.Go(func() error { return s.Run(ctx, sweepInterval) })

	if err := g.Wait(); err != nil {
		log.Fatal("storefront stopped", zap.Error(err))
	}
	log.Info("storefront stopped")
}
