package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/db"
	"github.com/alexanderramin/fiberpay/internal/domain"
)

// SQLiteSummaryRepo stores named aggregate tables of one or two keys.
type SQLiteSummaryRepo struct {
	db db.DBTX
}

func NewSQLiteSummaryRepo(conn db.DBTX) *SQLiteSummaryRepo {
	return &SQLiteSummaryRepo{db: conn}
}

// Save replaces any table already stored under name.
func (r *SQLiteSummaryRepo) Save(ctx context.Context, name string, t domain.Table) error {
	if len(t.Keys) == 0 || len(t.Keys) > 2 {
		return fmt.Errorf("summary %q: expected 1 or 2 keys, got %d", name, len(t.Keys))
	}
	keys := make([]string, len(t.Keys))
	for i, k := range t.Keys {
		keys[i] = string(k)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM summaries WHERE name = ?`, name); err != nil {
		return fmt.Errorf("clearing summary %q: %w", name, err)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO summaries (name, group_keys, reduction) VALUES (?, ?, ?)`,
		name, strings.Join(keys, ","), string(t.Reduction),
	); err != nil {
		return fmt.Errorf("inserting summary %q: %w", name, err)
	}

	for i, row := range t.Rows {
		var key2 any
		if len(row.Key) > 1 {
			key2 = row.Key[1]
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO summary_rows (summary_name, position, key1, key2, value) VALUES (?, ?, ?, ?, ?)`,
			name, i, row.Key[0], key2, row.Value,
		); err != nil {
			return fmt.Errorf("inserting summary %q row %d: %w", name, i, err)
		}
	}
	return nil
}

func (r *SQLiteSummaryRepo) Get(ctx context.Context, name string) (domain.Table, error) {
	var keys, reduction string
	err := r.db.QueryRowContext(ctx,
		`SELECT group_keys, reduction FROM summaries WHERE name = ?`, name,
	).Scan(&keys, &reduction)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Table{}, fmt.Errorf("summary %q: %w", name, ErrNotFound)
		}
		return domain.Table{}, fmt.Errorf("scanning summary: %w", err)
	}

	t := domain.Table{Reduction: domain.Reduction(reduction), Rows: []domain.TableRow{}}
	for _, k := range strings.Split(keys, ",") {
		t.Keys = append(t.Keys, domain.GroupKey(k))
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT key1, key2, value FROM summary_rows WHERE summary_name = ? ORDER BY position`, name)
	if err != nil {
		return domain.Table{}, fmt.Errorf("listing summary rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			key1  string
			key2  sql.NullString
			value float64
		)
		if err := rows.Scan(&key1, &key2, &value); err != nil {
			return domain.Table{}, fmt.Errorf("scanning summary row: %w", err)
		}
		key := []string{key1}
		if key2.Valid {
			key = append(key, key2.String)
		}
		t.Rows = append(t.Rows, domain.TableRow{Key: key, Value: value})
	}
	return t, rows.Err()
}

func (r *SQLiteSummaryRepo) Names(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM summaries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing summaries: %w", err)
	}
	defer rows.Close()
	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scanning summary name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
