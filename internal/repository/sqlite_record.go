package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/fiberpay/internal/db"
	"github.com/alexanderramin/fiberpay/internal/domain"
)

// SQLiteRecordRepo implements RecordRepo using a SQLite database.
type SQLiteRecordRepo struct {
	db db.DBTX
}

func NewSQLiteRecordRepo(conn db.DBTX) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: conn}
}

const recordColumns = `id, source, row_index, work_date, project, truck, reporter, action_text,
	hours_worked, activity, quantity, quantity_found, quantity_field`

// Create inserts the record with its participants and note fields.
func (r *SQLiteRecordRepo) Create(ctx context.Context, rec *domain.Record) error {
	activity := rec.Activity
	if activity == "" {
		activity = domain.ActivityUnclassified
	}
	query := `INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Source,
		rec.RowIndex,
		nullableDate(rec.Date),
		nullableString(rec.Project),
		nullableString(rec.Truck),
		nullableString(rec.Reporter),
		nullableString(rec.ActionText),
		nullableFloat(rec.HoursWorked),
		string(activity),
		rec.Quantity,
		boolToInt(rec.QuantityFound),
		nullableString(rec.QuantityField),
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}

	for i, name := range rec.Participants {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO record_participants (record_id, position, name) VALUES (?, ?, ?)`,
			rec.ID, i, name,
		); err != nil {
			return fmt.Errorf("inserting participant %q: %w", name, err)
		}
	}

	for field, body := range rec.NoteFields {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO record_notes (record_id, field, body) VALUES (?, ?, ?)`,
			rec.ID, field, body,
		); err != nil {
			return fmt.Errorf("inserting note %q: %w", field, err)
		}
	}
	return nil
}

func (r *SQLiteRecordRepo) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	recs := []domain.Record{*rec}
	if err := r.attachChildren(ctx, recs, id); err != nil {
		return nil, err
	}
	return &recs[0], nil
}

// List returns every record in sheet order.
func (r *SQLiteRecordRepo) List(ctx context.Context) ([]domain.Record, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY source, row_index`)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	recs := []domain.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	// Close before the child queries; the export handle may hold one connection.
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("closing record rows: %w", err)
	}

	if err := r.attachChildren(ctx, recs, ""); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *SQLiteRecordRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// attachChildren loads participants and notes for recs. A non-empty onlyID
// limits the queries to that record.
func (r *SQLiteRecordRepo) attachChildren(ctx context.Context, recs []domain.Record, onlyID string) error {
	byID := make(map[string]*domain.Record, len(recs))
	for i := range recs {
		recs[i].Participants = []string{}
		recs[i].NoteFields = map[string]string{}
		byID[recs[i].ID] = &recs[i]
	}

	participants := `SELECT record_id, name FROM record_participants`
	notes := `SELECT record_id, field, body FROM record_notes`
	var args []any
	if onlyID != "" {
		participants += ` WHERE record_id = ?`
		notes += ` WHERE record_id = ?`
		args = append(args, onlyID)
	}
	participants += ` ORDER BY record_id, position`

	err := r.eachRow(ctx, participants, args, func(rows *sql.Rows) error {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if rec, ok := byID[id]; ok {
			rec.Participants = append(rec.Participants, name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading participants: %w", err)
	}

	err = r.eachRow(ctx, notes, args, func(rows *sql.Rows) error {
		var id, field, body string
		if err := rows.Scan(&id, &field, &body); err != nil {
			return err
		}
		if rec, ok := byID[id]; ok {
			rec.NoteFields[field] = body
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("loading notes: %w", err)
	}
	return nil
}

func (r *SQLiteRecordRepo) eachRow(ctx context.Context, query string, args []any, fn func(*sql.Rows) error) error {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*domain.Record, error) {
	var (
		rec           domain.Record
		date          sql.NullString
		project       sql.NullString
		truck         sql.NullString
		reporter      sql.NullString
		action        sql.NullString
		hours         sql.NullFloat64
		activity      string
		quantityFound int
		quantityField sql.NullString
	)
	err := s.Scan(
		&rec.ID,
		&rec.Source,
		&rec.RowIndex,
		&date,
		&project,
		&truck,
		&reporter,
		&action,
		&hours,
		&activity,
		&rec.Quantity,
		&quantityFound,
		&quantityField,
	)
	if err != nil {
		return nil, err
	}
	rec.Date = parseNullableDate(date)
	rec.Project = project.String
	rec.Truck = truck.String
	rec.Reporter = reporter.String
	rec.ActionText = action.String
	rec.HoursWorked = floatPtr(hours)
	rec.Activity = domain.ActivityCategory(activity)
	rec.QuantityFound = intToBool(quantityFound)
	rec.QuantityField = quantityField.String
	return &rec, nil
}
