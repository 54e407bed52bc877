package service

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/db"
	"github.com/alexanderramin/fiberpay/internal/importer"
	"github.com/alexanderramin/fiberpay/internal/repository"
	"github.com/alexanderramin/fiberpay/internal/rules"
	"github.com/alexanderramin/fiberpay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

func loadFieldSheet(t *testing.T) *app.Dataset {
	t.Helper()
	ds, err := NewDatasetService(rules.Default(), 2).Load(context.Background(), testutil.WriteFieldSheet(t))
	require.NoError(t, err)
	return ds
}

func filterSpec(t *testing.T, in app.FilterInput) app.ReportRequest {
	t.Helper()
	spec, err := in.Spec()
	require.NoError(t, err)
	return app.ReportRequest{Filter: spec}
}

// --- DatasetService ---

func TestDatasetService_Load(t *testing.T) {
	ds := loadFieldSheet(t)

	assert.Equal(t, "field.csv", ds.Source)
	require.Len(t, ds.Records, 4)
	assert.Equal(t, []string{"Amy"}, ds.Records[0].Participants)
	assert.Equal(t, []string{"Bob", "Amy"}, ds.Records[1].Participants)
	assert.Equal(t, 1250.0, ds.Records[2].Quantity)
	assert.False(t, ds.Records[3].Classified())

	assert.Equal(t, []string{"2024-01-05", "2024-01-06"}, ds.Options.Dates)
	assert.Equal(t, []string{"Site A", "Site B"}, ds.Options.Projects)
	assert.Equal(t, []string{"T-12", "T-7"}, ds.Options.Trucks)
	assert.Equal(t, []string{"Amy", "Bob", "Carol"}, ds.Options.Technicians)
}

func TestDatasetService_LoadIsDeterministic(t *testing.T) {
	path := testutil.WriteFieldSheet(t)
	svc := NewDatasetService(rules.Default(), 4)

	a, err := svc.Load(context.Background(), path)
	require.NoError(t, err)
	b, err := svc.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, a.Records, b.Records)
}

func TestDatasetService_LoadErrors(t *testing.T) {
	svc := NewDatasetService(rules.Default(), 1)

	_, err := svc.Load(context.Background(), testutil.WriteSheet(t, "notes.txt", "hello"))
	require.ErrorIs(t, err, importer.ErrUnsupportedFormat)

	_, err = svc.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Load(ctx, testutil.WriteFieldSheet(t))
	require.ErrorIs(t, err, context.Canceled)
}

// --- ReportService ---

func TestReportService_Report(t *testing.T) {
	ds := loadFieldSheet(t)
	req := app.ReportRequest{Keywords: []string{"FAT", "Patch panel"}}

	resp, err := NewReportService().Report(context.Background(), ds, req)
	require.NoError(t, err)

	assert.False(t, resp.Empty)
	assert.Equal(t, "all records", resp.Filter)
	assert.Equal(t, 19.0, resp.Totals.Hours)
	assert.Equal(t, 2050.0, resp.Totals.Quantity)
	assert.Equal(t, 4, resp.Totals.Records)
	assert.Equal(t, 3, resp.Totals.Technicians)

	assert.Equal(t, map[string]float64{"Amy": 14, "Bob": 6, "Carol": 5}, resp.TechnicianHours.AsMap())
	assert.Equal(t, "Amy", resp.TechnicianHours.Rows[0].Key[0], "ranked by hours")
	assert.Equal(t, []string{"2024-01-05"}, resp.DailyHours.Rows[0].Key)
	assert.Equal(t, map[string]float64{"2024-01-05": 20, "2024-01-06": 5}, resp.DailyHours.AsMap(), "crew hours per day")
	assert.Equal(t, map[string]float64{"Site A": 14, "Site B": 5}, resp.ProjectHours.AsMap())
	assert.Equal(t, map[string]float64{"Strand": 1250, "Lashed Fiber": 500, "Pulled Fiber": 300}, resp.FootageByActivity.AsMap())
	assert.Equal(t, map[string]float64{"Carol": 1250, "Amy": 800, "Bob": 300}, resp.FootageByTechnician.AsMap())

	require.Len(t, resp.Keywords, 2)
	assert.Equal(t, 1, resp.Keywords[0].Count)
	assert.Equal(t, 0, resp.Keywords[1].Count)
	assert.Nil(t, resp.Custom)
}

func TestReportService_FilteredView(t *testing.T) {
	ds := loadFieldSheet(t)
	req := filterSpec(t, app.FilterInput{Date: "2024-01-05", Project: "Site A"})
	req.Keywords = []string{"FAT"}

	resp, err := NewReportService().Report(context.Background(), ds, req)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Totals.Records)
	assert.Equal(t, map[string]float64{"Amy": 800, "Bob": 300}, resp.FootageByTechnician.AsMap())
	assert.Equal(t, 1100.0, resp.FootageByTechnician.Total())
	assert.Equal(t, map[string]float64{"2024-01-05": 20}, resp.DailyHours.AsMap())

	require.Len(t, resp.Keywords, 1)
	assert.Equal(t, 0, resp.Keywords[0].Count, "the only FAT note is on 2024-01-06, outside the view")
}

func TestReportService_EmptyFilter(t *testing.T) {
	ds := loadFieldSheet(t)
	req := filterSpec(t, app.FilterInput{Technicians: []string{"Zed"}})

	resp, err := NewReportService().Report(context.Background(), ds, req)
	require.NoError(t, err)
	assert.True(t, resp.Empty)
	assert.True(t, resp.TechnicianHours.Empty())
	assert.Zero(t, resp.Totals.Hours)
}

func TestReportService_CustomTable(t *testing.T) {
	ds := loadFieldSheet(t)
	req := app.ReportRequest{GroupBy: []string{"date", "technician"}, Reduction: "count"}

	resp, err := NewReportService().Report(context.Background(), ds, req)
	require.NoError(t, err)
	require.NotNil(t, resp.Custom)

	v, ok := resp.Custom.Lookup("2024-01-06", "Carol")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestReportService_BadGrouping(t *testing.T) {
	ds := loadFieldSheet(t)
	_, err := NewReportService().Report(context.Background(), ds, app.ReportRequest{GroupBy: []string{"colour"}})
	assert.True(t, app.IsRequestError(err, app.ErrInvalidGrouping))
}

func TestReportService_KeywordFieldsFromRules(t *testing.T) {
	ds := loadFieldSheet(t)
	ds.KeywordFields = []string{"Fiber"}

	resp, err := NewReportService().Report(context.Background(), ds, app.ReportRequest{Keywords: []string{"FAT"}})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Keywords[0].Count, "notes are outside the configured fields")

	req := filterSpec(t, app.FilterInput{Keywords: []string{"fat"}, KeywordFields: []string{"Notes"}})
	req.Keywords = []string{"FAT"}
	resp, err = NewReportService().Report(context.Background(), ds, req)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Totals.Records)
	assert.Equal(t, 1, resp.Keywords[0].Count)
}

func TestReportService_Narrate(t *testing.T) {
	ds := loadFieldSheet(t)

	resp, err := NewReportService().Narrate(context.Background(), ds, app.NarrateRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Sections, 2)

	assert.Equal(t, "Site A", resp.Sections[0].Project)
	assert.Equal(t, []string{
		"Amy used T-12 to do Lashed Fiber with 48ct for 500 feet.",
		"Bob and Amy used Unknown Truck to do Pulled Fiber with Unknown Fiber for 300 feet.",
	}, resp.Sections[0].Sentences)
	assert.Equal(t, []string{
		"Carol used T-7 to do Strand work with Unknown Fiber for 1250 feet.",
	}, resp.Sections[1].Sentences)
}

func TestReportService_NarrateEmpty(t *testing.T) {
	ds := loadFieldSheet(t)
	spec, err := app.FilterInput{Date: "2023-12-31"}.Spec()
	require.NoError(t, err)

	resp, err := NewReportService().Narrate(context.Background(), ds, app.NarrateRequest{Filter: spec})
	require.NoError(t, err)
	assert.Empty(t, resp.Sections)
}

// --- ExportService ---

func TestExportService_CSV(t *testing.T) {
	ds := loadFieldSheet(t)
	spec, err := app.FilterInput{Project: "Site B"}.Spec()
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "out.csv")

	res, err := NewExportService().Export(context.Background(), ds, app.ExportRequest{Filter: spec, Path: out})
	require.NoError(t, err)
	assert.Equal(t, app.ExportCSV, res.Format)
	assert.Equal(t, 2, res.Records)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, lines, 3)
	assert.Equal(t, "Site B", lines[1][1])
}

func TestExportService_SQLite(t *testing.T) {
	ds := loadFieldSheet(t)
	out := filepath.Join(t.TempDir(), "nested", "out.db")
	svc := NewExportService()

	// Exporting twice replaces the first file instead of colliding on IDs.
	for range 2 {
		res, err := svc.Export(context.Background(), ds, app.ExportRequest{Path: out, Format: app.ExportSQLite})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Records)
	}

	conn, err := db.OpenDB(out)
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()

	n, err := repository.NewSQLiteRecordRepo(conn).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	names, err := repository.NewSQLiteSummaryRepo(conn).Names(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		SummaryActivityFootage, SummaryDailyHours, SummaryProjectHours,
		SummaryTechnicianFootage, SummaryTechnicianHours,
	}, names)

	src, err := repository.NewSQLiteMetaRepo(conn).Get(ctx, repository.MetaSource)
	require.NoError(t, err)
	assert.Equal(t, "field.csv", src)
}

func TestExportService_SQLiteRollbackRemovesFile(t *testing.T) {
	ds := loadFieldSheet(t)
	out := filepath.Join(t.TempDir(), "out.db")
	boom := errors.New("disk full")

	svc := NewExportService().(*exportService)
	svc.newUoW = func(conn *sql.DB) db.UnitOfWork {
		return &testutil.FailOnNthExecUoW{DB: conn, FailOn: 3, Err: boom}
	}

	_, err := svc.Export(context.Background(), ds, app.ExportRequest{Path: out, Format: app.ExportSQLite})
	require.ErrorIs(t, err, boom)
	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestExportService_MissingPath(t *testing.T) {
	ds := loadFieldSheet(t)
	_, err := NewExportService().Export(context.Background(), ds, app.ExportRequest{})
	assert.True(t, app.IsRequestError(err, app.ErrMissingPath))
}

// --- Observability ---

func TestLogUseCaseObserver(t *testing.T) {
	core, logs := zapobserver.New(zap.InfoLevel)
	obs := NewLogUseCaseObserver(zap.New(core))

	ds, err := NewDatasetService(rules.Default(), 1, obs).Load(context.Background(), testutil.WriteFieldSheet(t))
	require.NoError(t, err)
	_, err = NewReportService(obs).Report(context.Background(), ds, app.ReportRequest{GroupBy: []string{"nope"}})
	require.Error(t, err)

	entries := logs.FilterMessage("service_use_case").All()
	require.Len(t, entries, 2)

	load := entries[0].ContextMap()
	assert.Equal(t, "load-dataset", load["use_case"])
	assert.Equal(t, true, load["success"])
	assert.EqualValues(t, 4, load["rows"])

	report := entries[1].ContextMap()
	assert.Equal(t, "report", report["use_case"])
	assert.Equal(t, false, report["success"])
	assert.Contains(t, report["error"], "INVALID_GROUPING")
}

func TestNewLogUseCaseObserver_NilLoggerIsNoop(t *testing.T) {
	assert.Equal(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}
