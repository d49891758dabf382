package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/sitepatrol/internal/database/repository"
)

func openTestDB(t *testing.T) (*sql.DB, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	db, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, ctx
}

func TestRunMigrationsIsRepeatable(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, RunMigrations(dbPath))
	require.NoError(t, RunMigrations(dbPath))

	db, err := Open(dbPath)
	require.NoError(t, err)
	defer db.Close()
	for _, table := range []string{"sites", "pointers", "routes", "route_revisions"} {
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n))
		require.Equal(t, 1, n, table)
	}
}

func TestSeedDefaultsOnce(t *testing.T) {
	t.Parallel()
	db, ctx := openTestDB(t)

	require.NoError(t, SeedDefaults(ctx, db))
	require.NoError(t, SeedDefaults(ctx, db))

	sites, err := repository.NewSiteRepo(db).List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 1)
	require.Equal(t, SiteID("Demo Site"), sites[0].ID)

	ps, err := repository.NewPointerRepo(db).ListBySite(ctx, sites[0].ID)
	require.NoError(t, err)
	require.Len(t, ps, 5)
	require.Equal(t, "Main Gate", ps[0].Label)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	db, ctx := openTestDB(t)
	boom := errors.New("boom")

	err := WithTx(ctx, db, func(tx *sql.Tx) error {
		if err := repository.NewSiteRepo(db).WithTx(tx).Upsert(ctx, repository.Site{ID: "s1", Name: "North"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	site, err := repository.NewSiteRepo(db).Get(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, site)
}

func TestSiteIDIsStable(t *testing.T) {
	t.Parallel()
	require.Equal(t, SiteID("North Campus"), SiteID("North Campus"))
	require.NotEqual(t, SiteID("North Campus"), SiteID("South Campus"))
}

func TestOpenAppliesBusyTimeout(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	for name, tc := range map[string]struct {
		opts []Option
		want int
	}{
		"default":    {want: 5000},
		"configured": {opts: []Option{WithBusyTimeout(1500 * time.Millisecond)}, want: 1500},
		"zero keeps": {opts: []Option{WithBusyTimeout(0)}, want: 5000},
	} {
		db, err := Open(filepath.Join(dir, name+".db"), tc.opts...)
		require.NoError(t, err)
		var got int
		require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&got), name)
		require.Equal(t, tc.want, got, name)
		require.NoError(t, db.Close())
	}
}
