package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jask/sitepatrol/internal/database/repository"
)

// SiteID derives a stable site id from its name so imports and seeds are idempotent.
func SiteID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("site:"+name)).String()
}

// SeedDefaults adds a demo site with a handful of checkpoints to an empty
// database. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	existing, err := repository.NewSiteRepo(db).List(ctx)
	if err != nil {
		return fmt.Errorf("list sites: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		site := repository.Site{ID: SiteID("Demo Site"), Name: "Demo Site", Address: "1 Example Street"}
		if err := repository.NewSiteRepo(db).WithTx(tx).Upsert(ctx, site); err != nil {
			return err
		}
		pointers := repository.NewPointerRepo(db).WithTx(tx)
		for idx, label := range []string{"Main Gate", "Lobby", "Car Park B1", "Loading Dock", "Roof Access"} {
			if _, err := pointers.Upsert(ctx, repository.Pointer{SiteID: site.ID, Label: label, SortOrder: idx}); err != nil {
				return fmt.Errorf("seed pointer %s: %w", label, err)
			}
		}
		return nil
	})
}
