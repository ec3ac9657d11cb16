package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"CatalogExplorer/internal/history"
)

func openSQLite(t *testing.T, path string) *history.SQLiteStore {
	t.Helper()

	s, err := history.OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t, filepath.Join(t.TempDir(), "history.db"))

	require.NoError(t, s.Ping(ctx))

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", `["p1"]`))
	require.NoError(t, s.Set(ctx, "k", `["p1","p2"]`))

	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["p1","p2"]`, v)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	first, err := history.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, history.New(first, history.DefaultLimit).Save(ctx, history.DefaultKey, "p3"))
	require.NoError(t, first.Close())

	second := openSQLite(t, path)
	ids, err := history.New(second, history.DefaultLimit).List(ctx, history.DefaultKey)
	require.NoError(t, err)
	require.Equal(t, []string{"p3"}, ids)
}
