package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool used by Postgres.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres keeps entries in the stored_files table.
type Postgres struct {
	db DBTX
}

// NewPostgres creates a new Postgres index with the given connection pool.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

const entryColumns = `key, extension, storage_name, original_name, content_type, size_bytes, created_at, expires_at`

// Put inserts or replaces the entry for e.Key.
func (p *Postgres) Put(ctx context.Context, e *Entry) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO stored_files (`+entryColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (key) DO UPDATE SET
		   extension = EXCLUDED.extension,
		   storage_name = EXCLUDED.storage_name,
		   original_name = EXCLUDED.original_name,
		   content_type = EXCLUDED.content_type,
		   size_bytes = EXCLUDED.size_bytes,
		   created_at = EXCLUDED.created_at,
		   expires_at = EXCLUDED.expires_at`,
		e.Key, e.Extension, e.StorageName, e.OriginalName, e.ContentType, e.SizeBytes, e.CreatedAt, nullTime(e.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("insert stored file: %w", err)
	}
	return nil
}

// Get fetches an entry by its key.
func (p *Postgres) Get(ctx context.Context, key string) (*Entry, error) {
	e, err := scanEntry(p.db.QueryRow(ctx,
		`SELECT `+entryColumns+` FROM stored_files WHERE key = $1`,
		key,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stored file: %w", err)
	}
	return e, nil
}

// Delete removes the row for key.
func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.db.Exec(ctx, `DELETE FROM stored_files WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}
	return nil
}

// Expired returns matching entries ordered by expiry time.
func (p *Postgres) Expired(ctx context.Context, before time.Time) ([]*Entry, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+entryColumns+` FROM stored_files
		 WHERE expires_at IS NOT NULL AND expires_at <= $1
		 ORDER BY expires_at`,
		before,
	)
	if err != nil {
		return nil, fmt.Errorf("query expired: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expired: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(row pgx.Row) (*Entry, error) {
	e := &Entry{}
	var expiresAt *time.Time
	err := row.Scan(&e.Key, &e.Extension, &e.StorageName, &e.OriginalName, &e.ContentType, &e.SizeBytes, &e.CreatedAt, &expiresAt)
	if err != nil {
		return nil, err
	}
	if expiresAt != nil {
		e.ExpiresAt = *expiresAt
	}
	return e, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
