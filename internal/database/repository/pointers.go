package repository

import (
	"context"
	"database/sql"
)

// PointerRepo handles checkpoints.
type PointerRepo struct {
	db dbtx
}

func NewPointerRepo(db *sql.DB) *PointerRepo { return &PointerRepo{db: db} }

func (r *PointerRepo) WithTx(tx *sql.Tx) *PointerRepo { return &PointerRepo{db: tx} }

// Upsert inserts a checkpoint or updates the sort order of the one with the
// same label, returning its id.
func (r *PointerRepo) Upsert(ctx context.Context, p Pointer) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
	INSERT INTO pointers(site_id, label, sort_order, created_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(site_id, label) DO UPDATE SET sort_order=excluded.sort_order
	RETURNING id;
	`, p.SiteID, p.Label, p.SortOrder).Scan(&id)
	return id, err
}

// ListBySite returns the site's catalog in display order.
func (r *PointerRepo) ListBySite(ctx context.Context, siteID string) ([]Pointer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, site_id, label, sort_order, created_at FROM pointers WHERE site_id = ? ORDER BY sort_order, id`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Pointer
	for rows.Next() {
		var p Pointer
		if err := rows.Scan(&p.ID, &p.SiteID, &p.Label, &p.SortOrder, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PointerRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pointers WHERE id = ?`, id)
	return err
}
