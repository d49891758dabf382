package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SiteRepo handles sites.
type SiteRepo struct {
	db dbtx
}

func NewSiteRepo(db *sql.DB) *SiteRepo {
	return &SiteRepo{db: db}
}

func (r *SiteRepo) WithTx(tx *sql.Tx) *SiteRepo { return &SiteRepo{db: tx} }

func (r *SiteRepo) Upsert(ctx context.Context, s Site) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sites(id, name, address, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 address=excluded.address,
	 updated_at=CURRENT_TIMESTAMP;
	`, s.ID, s.Name, s.Address)
	return err
}

func (r *SiteRepo) List(ctx context.Context) ([]Site, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, address, created_at, updated_at FROM sites ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get returns nil when the site does not exist.
func (r *SiteRepo) Get(ctx context.Context, id string) (*Site, error) {
	s, err := scanSite(r.db.QueryRowContext(ctx, `SELECT id, name, address, created_at, updated_at FROM sites WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *SiteRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	return err
}

func scanSite(row scanner) (Site, error) {
	var s Site
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
