package main

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"CatalogExplorer/internal/catalog"
	"CatalogExplorer/internal/session"
	"CatalogExplorer/pkg/kit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := kit.NewLogger(serviceName, cfg.Log.Level)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	kv, closeKV, err := openHistoryKV(ctx, cfg.History.Backend)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeKV(); err != nil {
			log.Warn("close history store", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	svc := newService(kv, log, kit.NewOpMetrics(reg))

	secret := cfg.Session.Secret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("session.secret not set, using an ephemeral secret; issued tokens die with this process")
	}
	if cfg.Metrics.Enabled && cfg.Metrics.Token == "" {
		log.Warn("metrics.token not set, /metrics will refuse every request")
	}

	srv := &catalog.Server{
		Catalog:    svc,
		Health:     svc,
		Sessions:   session.NewTokenMaker(secret, session.DefaultTTL),
		Log:        log,
		TrustProxy: cfg.Server.TrustProxy,
	}
	h := catalog.NewHandler(srv, catalog.HTTPDeps{
		Log:            log,
		Service:        serviceName,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	log.Info("catalog configured",
		zap.String("history_backend", cfg.History.Backend),
		zap.Float64("latency_scale", cfg.Latency.Scale),
		zap.Bool("filter_by_category", cfg.Catalog.FilterByCategory),
	)
	return kit.RunHTTPServer(ctx, cfg.Server.Addr(), h, log)
}
