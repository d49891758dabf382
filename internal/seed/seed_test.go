package seed

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/sitepatrol/internal/database"
	"github.com/jask/sitepatrol/internal/database/repository"
	"github.com/jask/sitepatrol/internal/patrol"
	"github.com/jask/sitepatrol/internal/service"
)

const sample = `
sites:
  - name: North Campus
    address: 12 Harbour Rd
    pointers: [Main Gate, Lobby, Roof Access]
    routes:
      - name: Night
        remarks: take the torch
        pointers: [roof access, Lobby, Main Gte]
      - name: Quick
        pointers: [Lobby]
  - name: Depot
    pointers: [Yard]
`

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("sites:\n  - name: A\n    colour: red\n"))
	require.Error(t, err)

	_, err = Load(strings.NewReader("sites:\n  - address: nowhere\n"))
	require.Error(t, err)

	f, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, f.Sites)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	f, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	res, err := Apply(ctx, db, f)
	require.NoError(t, err)
	require.Equal(t, Result{Sites: 2, Pointers: 4, Routes: 2}, res)

	_, err = Apply(ctx, db, f)
	require.NoError(t, err)

	svc := service.NewRouteService(db, nil)
	agg, err := svc.Site(ctx, database.SiteID("North Campus"))
	require.NoError(t, err)
	require.Len(t, agg.Pointers, 3)
	require.Len(t, agg.Routes, 2)

	night, ok := agg.Route(RouteID(agg.ID, "Night"))
	require.True(t, ok)
	want := []string{"Roof Access", "Lobby", "Main Gate"}
	var got []string
	cat := agg.Catalog()
	for _, id := range patrol.ParseRoute(night.Route).IDs() {
		got = append(got, cat.Label(id))
	}
	require.Equal(t, want, got)

	revs, err := repository.NewRouteRepo(db).Revisions(ctx, night.ID)
	require.NoError(t, err)
	require.Len(t, revs, 1)
}

func TestApplyRollsBackOnBadLabel(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "seed.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	f, err := Load(strings.NewReader("sites:\n  - name: A\n    pointers: [Gate]\n    routes:\n      - name: R\n        pointers: [Basement]\n"))
	require.NoError(t, err)
	_, err = Apply(ctx, db, f)
	require.ErrorIs(t, err, service.ErrInvalidRoute)

	sites, err := repository.NewSiteRepo(db).List(ctx)
	require.NoError(t, err)
	require.Empty(t, sites)
}
