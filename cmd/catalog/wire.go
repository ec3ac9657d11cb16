package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"CatalogExplorer/internal/catalog"
	"CatalogExplorer/internal/config"
	"CatalogExplorer/internal/history"
	"CatalogExplorer/pkg/kit"
)

func noopClose() error { return nil }

// openHistoryKV opens the configured view history backend.
func openHistoryKV(ctx context.Context, backend string) (history.KV, func() error, error) {
	switch backend {
	case config.BackendMemory:
		return history.NewMemoryStore(), noopClose, nil
	case config.BackendSQLite:
		s, err := history.OpenSQLite(ctx, cfg.History.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite history %s: %w", cfg.History.SQLitePath, err)
		}
		return s, s.Close, nil
	case config.BackendRedis:
		s, err := history.OpenRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("open redis history %s: %w", cfg.Redis.Addr(), err)
		}
		return s, s.Close, nil
	case config.BackendPostgres:
		s, err := history.OpenPostgres(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres history %s:%d: %w", cfg.Database.Host, cfg.Database.Port, err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", backend)
	}
}

// cliBackend keeps history across CLI runs: a memory store would be gone
// when the process exits, so the CLI falls back to the SQLite file.
func cliBackend(backend string) string {
	if backend == config.BackendMemory {
		return config.BackendSQLite
	}
	return backend
}

func newService(kv history.KV, log *zap.Logger, metrics *kit.OpMetrics) *catalog.Service {
	views := history.New(kv, cfg.History.Limit)
	log.Debug("view history ready", zap.Int("limit", views.Limit()))

	return catalog.NewService(catalog.Options{
		Sleep:            kit.ScaledSleep(cfg.Latency.Scale),
		FilterByCategory: cfg.Catalog.FilterByCategory,
		History:          views,
		Log:              log,
		Metrics:          metrics,
	})
}

// openAPI returns the catalog the browse commands talk to, and a cleanup func.
func openAPI(ctx context.Context, log *zap.Logger) (catalog.API, func(), error) {
	if apiURL != "" {
		c := catalog.NewClient(apiURL, 0)
		c.SetSessionToken(sessionToken)
		return c, func() {
			if tok := c.SessionToken(); tok != "" && tok != sessionToken {
				fmt.Fprintf(os.Stderr, "session token: %s\n", tok)
			}
			_ = c.Close()
		}, nil
	}

	kv, closeKV, err := openHistoryKV(ctx, cliBackend(cfg.History.Backend))
	if err != nil {
		return nil, nil, err
	}
	return newService(kv, log, nil), func() {
		if err := closeKV(); err != nil {
			log.Warn("close history store", zap.Error(err))
		}
	}, nil
}
