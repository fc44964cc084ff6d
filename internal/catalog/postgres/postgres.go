// Package postgres implements catalog.Repository on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"tabular/internal/catalog"
)

type repo struct {
	pool *pgxpool.Pool
}

func init() {
	catalog.Register("postgres", New)
}

// New opens a Postgres catalog from a pgx DSN or URL.
func New(ctx context.Context, cfg catalog.Config) (catalog.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &repo{pool: pool}, nil
}

func (r *repo) Close() { r.pool.Close() }

func (r *repo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
	id            BIGSERIAL PRIMARY KEY,
	path          TEXT NOT NULL,
	format        TEXT NOT NULL,
	row_count     BIGINT NOT NULL,
	column_count  INT NOT NULL,
	schema_json   JSONB NOT NULL,
	completeness  DOUBLE PRECISION NOT NULL,
	uniqueness    DOUBLE PRECISION NOT NULL,
	validity      DOUBLE PRECISION NOT NULL,
	consistency   DOUBLE PRECISION NOT NULL,
	issue_count   INT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_profiles_path ON profiles(path, created_at)`
	_, err := r.pool.Exec(ctx, ddl)
	return err
}

func (r *repo) Save(ctx context.Context, p *catalog.Profile) (int64, error) {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO profiles
	(path, format, row_count, column_count, schema_json,
	 completeness, uniqueness, validity, consistency, issue_count, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id`,
		p.Path, p.Format, p.RowCount, p.ColumnCount, p.SchemaJSON,
		p.Completeness, p.Uniqueness, p.Validity, p.Consistency, p.IssueCount, created,
	).Scan(&id)
	return id, err
}

func (r *repo) Latest(ctx context.Context, path string) (*catalog.Profile, error) {
	row := r.pool.QueryRow(ctx, selectCols+`
FROM profiles WHERE path = $1 ORDER BY created_at DESC, id DESC LIMIT 1`, path)

	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) List(ctx context.Context, limit int) ([]catalog.Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, selectCols+`
FROM profiles ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

const selectCols = `
SELECT id, path, format, row_count, column_count, schema_json::text,
       completeness, uniqueness, validity, consistency, issue_count, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*catalog.Profile, error) {
	var p catalog.Profile
	if err := row.Scan(
		&p.ID, &p.Path, &p.Format, &p.RowCount, &p.ColumnCount, &p.SchemaJSON,
		&p.Completeness, &p.Uniqueness, &p.Validity, &p.Consistency, &p.IssueCount,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
