// Package sqlite implements catalog.Repository on modernc.org/sqlite.
//
// SQLite has no native timestamp type; CreatedAt is stored as an
// RFC3339Nano string for reliable round-trips and easy debugging.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"tabular/internal/catalog"
)

type repo struct {
	db *sql.DB
}

func init() {
	catalog.Register("sqlite", New)
}

// New opens a SQLite catalog. DSN is a file path or ":memory:".
func New(ctx context.Context, cfg catalog.Config) (catalog.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, err
	}
	if strings.Contains(cfg.DSN, ":memory:") {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &repo{db: db}, nil
}

func (r *repo) Close() { _ = r.db.Close() }

func (r *repo) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS profiles (
	id            INTEGER PRIMARY KEY,
	path          TEXT NOT NULL,
	format        TEXT NOT NULL,
	row_count     INTEGER NOT NULL,
	column_count  INTEGER NOT NULL,
	schema_json   TEXT NOT NULL,
	completeness  REAL NOT NULL,
	uniqueness    REAL NOT NULL,
	validity      REAL NOT NULL,
	consistency   REAL NOT NULL,
	issue_count   INTEGER NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_profiles_path ON profiles(path, created_at);`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *repo) Save(ctx context.Context, p *catalog.Profile) (int64, error) {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO profiles
	(path, format, row_count, column_count, schema_json,
	 completeness, uniqueness, validity, consistency, issue_count, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Path, p.Format, p.RowCount, p.ColumnCount, p.SchemaJSON,
		p.Completeness, p.Uniqueness, p.Validity, p.Consistency, p.IssueCount,
		created.Format(time.RFC3339Nano))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *repo) Latest(ctx context.Context, path string) (*catalog.Profile, error) {
	row := r.db.QueryRowContext(ctx, selectCols+`
FROM profiles WHERE path = ? ORDER BY created_at DESC, id DESC LIMIT 1`, path)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
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
	rows, err := r.db.QueryContext(ctx, selectCols+`
FROM profiles ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
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
SELECT id, path, format, row_count, column_count, schema_json,
       completeness, uniqueness, validity, consistency, issue_count, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*catalog.Profile, error) {
	var p catalog.Profile
	var created string
	if err := row.Scan(
		&p.ID, &p.Path, &p.Format, &p.RowCount, &p.ColumnCount, &p.SchemaJSON,
		&p.Completeness, &p.Uniqueness, &p.Validity, &p.Consistency, &p.IssueCount,
		&created,
	); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		p.CreatedAt = t
	}
	return &p, nil
}
