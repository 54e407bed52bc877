package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/fiberpay/internal/db"
)

// Export metadata keys.
const (
	MetaSource     = "source"
	MetaFilter     = "filter"
	MetaExportedAt = "exported_at"
)

// SQLiteMetaRepo stores key/value facts about an export.
type SQLiteMetaRepo struct {
	db db.DBTX
}

func NewSQLiteMetaRepo(conn db.DBTX) *SQLiteMetaRepo {
	return &SQLiteMetaRepo{db: conn}
}

func (r *SQLiteMetaRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO export_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("setting export meta %q: %w", key, err)
	}
	return nil
}

// Stamp records the export time.
func (r *SQLiteMetaRepo) Stamp(ctx context.Context) error {
	return r.Set(ctx, MetaExportedAt, nowUTC())
}

func (r *SQLiteMetaRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM export_meta WHERE key = ?`, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("export meta %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("scanning export meta: %w", err)
	}
	return v, nil
}

func (r *SQLiteMetaRepo) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM export_meta`)
	if err != nil {
		return nil, fmt.Errorf("listing export meta: %w", err)
	}
	defer rows.Close()
	out := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scanning export meta: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}
