package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"CatalogExplorer/internal/config"
	"CatalogExplorer/internal/history"
)

func TestNewService_HistoryLimit(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = &config.Config{History: config.HistoryConfig{Limit: 3}}

	core, logs := observer.New(zap.DebugLevel)
	svc := newService(history.NewMemoryStore(), zap.New(core), nil)

	entries := logs.FilterMessage("view history ready").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(3), entries[0].ContextMap()["limit"])

	ctx := context.Background()
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		require.NoError(t, svc.SaveViewHistory(ctx, id))
	}
	got, err := svc.GetViewHistory(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"p2", "p3", "p4"}, got)
}

func TestCLIBackend(t *testing.T) {
	require.Equal(t, config.BackendSQLite, cliBackend(config.BackendMemory))
	require.Equal(t, config.BackendRedis, cliBackend(config.BackendRedis))
}
