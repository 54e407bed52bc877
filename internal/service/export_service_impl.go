package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/db"
	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/alexanderramin/fiberpay/internal/export"
	"github.com/alexanderramin/fiberpay/internal/filter"
	"github.com/alexanderramin/fiberpay/internal/repository"
)

// Summary table names written to SQLite exports.
const (
	SummaryTechnicianHours   = "technician_hours"
	SummaryDailyHours        = "daily_hours"
	SummaryProjectHours      = "project_hours"
	SummaryActivityFootage   = "activity_footage"
	SummaryTechnicianFootage = "technician_footage"
)

type exportService struct {
	observer UseCaseObserver
	newUoW   func(*sql.DB) db.UnitOfWork
}

func NewExportService(observers ...UseCaseObserver) ExportService {
	return &exportService{
		observer: useCaseObserverOrNoop(observers),
		newUoW:   func(conn *sql.DB) db.UnitOfWork { return db.NewSQLiteUnitOfWork(conn) },
	}
}

func (s *exportService) Export(ctx context.Context, ds *app.Dataset, req app.ExportRequest) (res *app.ExportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"source": ds.Source, "format": string(req.Format), "path": req.Path}
	defer observe(ctx, s.observer, "export", startedAt, fields, &err)

	if strings.TrimSpace(req.Path) == "" {
		return nil, &app.RequestError{Code: app.ErrMissingPath, Message: "an output path is required"}
	}
	format := req.Format
	if format == "" {
		format = app.ExportCSV
	}

	spec := withKeywordFields(req.Filter, ds)
	records := filter.Apply(ds.Records, spec)
	fields["records"] = len(records)

	switch format {
	case app.ExportCSV:
		err = writeCSVFile(req.Path, records)
	case app.ExportSQLite:
		err = s.writeSQLiteFile(ctx, req.Path, ds, spec, records)
	default:
		return nil, &app.RequestError{Code: app.ErrInvalidFormat, Message: fmt.Sprintf("format %q", format)}
	}
	if err != nil {
		return nil, err
	}
	return &app.ExportResult{Path: req.Path, Format: format, Records: len(records)}, nil
}

func writeCSVFile(path string, records []domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := export.WriteCSV(f, records); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// writeSQLiteFile replaces any file at path with a fresh export. A failed
// export leaves no file behind.
func (s *exportService) writeSQLiteFile(ctx context.Context, path string, ds *app.Dataset, spec domain.FilterSpec, records []domain.Record) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	conn, err := db.OpenDB(path)
	if err != nil {
		return err
	}

	bundle := export.Bundle{
		Records:   records,
		Summaries: summaryTables(records),
		Meta: map[string]string{
			repository.MetaSource: ds.Source,
			repository.MetaFilter: app.Describe(spec),
		},
	}
	err = export.WriteSQLite(ctx, s.newUoW(conn), bundle)
	if cerr := conn.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing export database: %w", cerr)
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func summaryTables(records []domain.Record) map[string]domain.Table {
	return map[string]domain.Table{
		SummaryTechnicianHours:   aggregate.ByTechnician(records, domain.ReduceHours),
		SummaryDailyHours:        aggregate.DailyTrend(records, domain.ReduceHours),
		SummaryProjectHours:      aggregate.ByProject(records, domain.ReduceHours),
		SummaryActivityFootage:   aggregate.ByActivity(records, domain.ReduceQuantity),
		SummaryTechnicianFootage: aggregate.ByTechnician(records, domain.ReduceQuantity),
	}
}
