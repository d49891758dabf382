package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/sitepatrol/internal/cache"
	"github.com/jask/sitepatrol/internal/database"
	"github.com/jask/sitepatrol/internal/database/repository"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
// Cache is optional.
type MaintenanceService struct {
	DB    *sql.DB
	Cache *cache.SiteCache
}

// PruneRevisions trims every route's history to its newest keep revisions.
func (s *MaintenanceService) PruneRevisions(ctx context.Context, keep int) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	if keep < 1 {
		return 0, fmt.Errorf("maintenance: keep must be at least 1, got %d", keep)
	}
	n, err := repository.NewRouteRepo(s.DB).PruneRevisions(ctx, keep)
	if err != nil {
		return 0, fmt.Errorf("prune revisions: %w", err)
	}
	return n, nil
}

// Reset wipes all sites, checkpoints and routes, then drops every cached site
// aggregate. It keeps the schema intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		tables := []string{
			"route_revisions",
			"routes",
			"pointers",
			"sites",
		}
		for _, t := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	if s.Cache != nil {
		if _, err := s.Cache.Flush(ctx); err != nil {
			return fmt.Errorf("flush site cache: %w", err)
		}
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
