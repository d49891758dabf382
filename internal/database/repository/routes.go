package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/oklog/ulid/v2"
)

// RouteRepo handles routes and their revisions.
type RouteRepo struct {
	db dbtx
}

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

func (r *RouteRepo) WithTx(tx *sql.Tx) *RouteRepo { return &RouteRepo{db: tx} }

const routeColumns = `id, site_id, name, remarks, route, created_at, updated_at`

func (r *RouteRepo) Insert(ctx context.Context, rt Route) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO routes(id, site_id, name, remarks, route, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, rt.ID, rt.SiteID, rt.Name, rt.Remarks, rt.Sequence)
	return err
}

// Update overwrites name, remarks and sequence. It reports whether a row matched.
func (r *RouteRepo) Update(ctx context.Context, rt Route) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE routes SET name = ?, remarks = ?, route = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ? AND site_id = ?
	`, rt.Name, rt.Remarks, rt.Sequence, rt.ID, rt.SiteID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *RouteRepo) Delete(ctx context.Context, siteID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM routes WHERE id = ? AND site_id = ?`, id, siteID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Get returns nil when the route does not exist.
func (r *RouteRepo) Get(ctx context.Context, id string) (*Route, error) {
	rt, err := scanRoute(r.db.QueryRowContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *RouteRepo) ListBySite(ctx context.Context, siteID string) ([]Route, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+routeColumns+` FROM routes WHERE site_id = ? ORDER BY name, created_at`, siteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Route
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// AddRevision snapshots rt. Revision ids are ULIDs so they sort by creation time.
func (r *RouteRepo) AddRevision(ctx context.Context, rt Route) (string, error) {
	id := ulid.Make().String()
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO route_revisions(id, route_id, name, remarks, route, created_at)
	VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, id, rt.ID, rt.Name, rt.Remarks, rt.Sequence)
	return id, err
}

// Revisions returns a route's history, newest first.
func (r *RouteRepo) Revisions(ctx context.Context, routeID string) ([]RouteRevision, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, route_id, name, remarks, route, created_at FROM route_revisions WHERE route_id = ? ORDER BY id DESC`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RouteRevision
	for rows.Next() {
		var rv RouteRevision
		if err := rows.Scan(&rv.ID, &rv.RouteID, &rv.Name, &rv.Remarks, &rv.Sequence, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func scanRoute(row scanner) (Route, error) {
	var rt Route
	err := row.Scan(&rt.ID, &rt.SiteID, &rt.Name, &rt.Remarks, &rt.Sequence, &rt.CreatedAt, &rt.UpdatedAt)
	return rt, err
}

// PruneRevisions keeps the newest keep revisions of every route and deletes
// the rest. It returns the number of rows removed.
func (r *RouteRepo) PruneRevisions(ctx context.Context, keep int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	DELETE FROM route_revisions WHERE id IN (
		SELECT id FROM (
			SELECT id, ROW_NUMBER() OVER (PARTITION BY route_id ORDER BY id DESC) AS rn
			FROM route_revisions
		) WHERE rn > ?
	)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
