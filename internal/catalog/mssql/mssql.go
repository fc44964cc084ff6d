// Package mssql implements catalog.Repository for SQL Server using
// database/sql with the go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"tabular/internal/catalog"
)

type repo struct {
	db *sql.DB
}

func init() {
	catalog.Register("mssql", New)
}

// New opens a SQL Server catalog from a sqlserver:// DSN.
func New(ctx context.Context, cfg catalog.Config) (catalog.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, err
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
IF OBJECT_ID('profiles', 'U') IS NULL
CREATE TABLE profiles (
	id            BIGINT IDENTITY(1,1) PRIMARY KEY,
	path          NVARCHAR(1024) NOT NULL,
	format        NVARCHAR(16) NOT NULL,
	row_count     BIGINT NOT NULL,
	column_count  INT NOT NULL,
	schema_json   NVARCHAR(MAX) NOT NULL,
	completeness  FLOAT NOT NULL,
	uniqueness    FLOAT NOT NULL,
	validity      FLOAT NOT NULL,
	consistency   FLOAT NOT NULL,
	issue_count   INT NOT NULL,
	created_at    DATETIMEOFFSET NOT NULL
)`
	_, err := r.db.ExecContext(ctx, ddl)
	return err
}

func (r *repo) Save(ctx context.Context, p *catalog.Profile) (int64, error) {
	created := p.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	var id int64
	err := r.db.QueryRowContext(ctx, `
INSERT INTO profiles
	(path, format, row_count, column_count, schema_json,
	 completeness, uniqueness, validity, consistency, issue_count, created_at)
OUTPUT INSERTED.id
VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10, @p11)`,
		p.Path, p.Format, p.RowCount, p.ColumnCount, p.SchemaJSON,
		p.Completeness, p.Uniqueness, p.Validity, p.Consistency, p.IssueCount, created,
	).Scan(&id)
	return id, err
}

func (r *repo) Latest(ctx context.Context, path string) (*catalog.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT TOP 1 `+selectCols+`
FROM profiles WHERE path = @p1 ORDER BY created_at DESC, id DESC`, path)

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
	rows, err := r.db.QueryContext(ctx, `
SELECT TOP (@p1) `+selectCols+`
FROM profiles ORDER BY created_at DESC, id DESC`, limit)
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

const selectCols = `id, path, format, row_count, column_count, schema_json,
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
