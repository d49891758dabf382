package service

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/jask/sitepatrol/internal/cache"
	"github.com/jask/sitepatrol/internal/database"
	"github.com/jask/sitepatrol/internal/patrol"
)

func TestPruneRevisionsKeepsNewest(t *testing.T) {
	svc, db, ctx := setupService(t)
	agg := demoSite(t, svc, ctx)
	ids := agg.Catalog().IDs()

	rec, err := svc.CreateRoute(ctx, agg.ID, patrol.RouteRequest{Name: "Night", Route: patrol.SerializeRoute(patrol.NewSequence(ids[0]))})
	require.NoError(t, err)
	for i := 1; i < 4; i++ {
		_, err = svc.UpdateRoute(ctx, agg.ID, rec.ID, patrol.RouteRequest{Name: "Night", Route: patrol.SerializeRoute(patrol.NewSequence(ids[:i+1]...))})
		require.NoError(t, err)
	}

	m := &MaintenanceService{DB: db}
	_, err = m.PruneRevisions(ctx, 0)
	require.Error(t, err)

	n, err := m.PruneRevisions(ctx, 2)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	revs, err := svc.Revisions(ctx, agg.ID, rec.ID)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	require.Equal(t, patrol.SerializeRoute(patrol.NewSequence(ids[:4]...)), revs[0].Route)
}

func TestResetClearsSites(t *testing.T) {
	svc, db, ctx := setupService(t)

	require.NoError(t, (&MaintenanceService{DB: db}).Reset(ctx))

	sites, err := svc.Sites(ctx)
	require.NoError(t, err)
	require.Empty(t, sites)
}

func TestResetDropsCachedSites(t *testing.T) {
	svc, db, ctx := setupService(t)
	mr := miniredis.RunT(t)
	svc.Cache = cache.New(mr.Addr(), "", 0, cache.WithTTL(0))
	t.Cleanup(func() { _ = svc.Cache.Close() })

	siteID := database.SiteID("Demo Site")
	demoSite(t, svc, ctx)
	require.True(t, mr.Exists("sitepatrol:site:"+siteID))

	require.NoError(t, (&MaintenanceService{DB: db, Cache: svc.Cache}).Reset(ctx))
	require.False(t, mr.Exists("sitepatrol:site:"+siteID))

	_, err := svc.Site(ctx, siteID)
	require.True(t, errors.Is(err, ErrSiteNotFound))
}
