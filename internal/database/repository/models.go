package repository

import (
	"context"
	"database/sql"
	"time"
)

// Site represents a site row.
type Site struct {
	ID        string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Pointer represents a checkpoint row.
type Pointer struct {
	ID        int64
	SiteID    string
	Label     string
	SortOrder int
	CreatedAt time.Time
}

// Route represents a patrol route row. Sequence is the persisted
// comma-separated checkpoint id list.
type Route struct {
	ID        string
	SiteID    string
	Name      string
	Remarks   string
	Sequence  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RouteRevision is a snapshot written on every route save.
type RouteRevision struct {
	ID        string
	RouteID   string
	Name      string
	Remarks   string
	Sequence  string
	CreatedAt time.Time
}

// dbtx is satisfied by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}
