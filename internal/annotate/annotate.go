// Package annotate turns parsed spreadsheet rows into annotated records:
// participants resolved, activity classified and footage extracted. Every
// function here is pure; annotating the same row twice yields the same
// record.
package annotate

import (
	"context"
	"math"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// recordNamespace seeds deterministic record IDs.
var recordNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("fiberpay/record"))

// Columns maps the structured record fields onto spreadsheet column names.
// Each field lists aliases tried in order; the first non-blank value wins.
type Columns struct {
	Date     []string
	Project  []string
	Truck    []string
	Reporter []string
	Action   []string
	Hours    []string

	// Employees is the ordered list of participant columns. When empty,
	// columns starting with EmployeePrefix are used instead.
	Employees      []string
	EmployeePrefix string
}

// DefaultColumns returns the column layout of the field-work sheets.
func DefaultColumns() Columns {
	return Columns{
		Date:           []string{"Date"},
		Project:        []string{"Project"},
		Truck:          []string{"Truck", "Truck #"},
		Reporter:       []string{"Who filled this out?", "Reporter", "Name"},
		Action:         []string{"Action", "Action Taken", "Work Performed"},
		Hours:          []string{"Hours Worked", "Hours"},
		EmployeePrefix: DefaultEmployeePrefix,
	}
}

// structured reports whether a column feeds a structured field rather than
// the free-text note map. The employee prefix only applies while no column
// list is pinned; with a list, an unlisted prefixed column stays a note.
func (c Columns) structured(col string) bool {
	for _, group := range [][]string{c.Date, c.Project, c.Truck, c.Reporter, c.Action, c.Hours, c.Employees} {
		for _, name := range group {
			if name == col {
				return true
			}
		}
	}
	return len(c.Employees) == 0 && c.EmployeePrefix != "" && strings.HasPrefix(col, c.EmployeePrefix)
}

// DefaultDateLayouts are tried in order when parsing the date column.
func DefaultDateLayouts() []string {
	return []string{
		domain.DateLayout,
		"2006-01-02 15:04:05",
		time.RFC3339,
		"1/2/2006",
		"01/02/2006",
		"1/2/06",
		"01-02-06",
		"1-2-06",
		"2-Jan-2006",
		"Jan 2, 2006",
		"January 2, 2006",
	}
}

// Schema bundles everything annotation needs. The zero value falls back to
// the built-in columns, layouts and rules.
type Schema struct {
	Columns     Columns
	DateLayouts []string
	Classifier  *Classifier
	Extractor   *Extractor
}

// DefaultSchema returns the built-in schema.
func DefaultSchema() Schema {
	return Schema{
		Columns:     DefaultColumns(),
		DateLayouts: DefaultDateLayouts(),
		Classifier:  DefaultClassifier(),
		Extractor:   DefaultExtractor(),
	}
}

// ForHeaders pins the employee column list for a sheet. When no explicit
// list is configured, prefix discovery runs once over the header order so
// participants come out in sheet order.
func (s Schema) ForHeaders(headers []string) Schema {
	if len(s.Columns.Employees) == 0 {
		s.Columns.Employees = DiscoverColumns(headers, s.Columns.EmployeePrefix)
	}
	return s
}

func (s Schema) classifier() *Classifier {
	if s.Classifier != nil {
		return s.Classifier
	}
	return DefaultClassifier()
}

func (s Schema) extractor() *Extractor {
	if s.Extractor != nil {
		return s.Extractor
	}
	return DefaultExtractor()
}

func (s Schema) layouts() []string {
	if len(s.DateLayouts) > 0 {
		return s.DateLayouts
	}
	return DefaultDateLayouts()
}

func (s Schema) columns() Columns {
	if len(s.Columns.Date) == 0 && len(s.Columns.Action) == 0 && len(s.Columns.Employees) == 0 && s.Columns.EmployeePrefix == "" {
		return DefaultColumns()
	}
	return s.Columns
}

// Annotate builds one record per row, sequentially.
func Annotate(source string, rows []domain.Row, schema Schema) []domain.Record {
	out := make([]domain.Record, len(rows))
	for i, row := range rows {
		out[i] = schema.Record(source, i, row)
	}
	return out
}

// AnnotateParallel is Annotate spread over a bounded worker pool. Records
// are independent, so the output is identical to Annotate and in row order.
// workers <= 0 uses GOMAXPROCS.
func AnnotateParallel(ctx context.Context, source string, rows []domain.Row, schema Schema, workers int) ([]domain.Record, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]domain.Record, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range rows {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = schema.Record(source, i, rows[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Record annotates a single row. index is the zero-based data row position
// and, together with source, determines the record ID.
func (s Schema) Record(source string, index int, row domain.Row) domain.Record {
	cols := s.columns()

	rec := domain.Record{
		ID:          RecordID(source, index),
		Source:      source,
		RowIndex:    index,
		Date:        ParseDate(firstValue(row, cols.Date), s.layouts()),
		Project:     firstValue(row, cols.Project),
		Truck:       firstValue(row, cols.Truck),
		Reporter:    firstValue(row, cols.Reporter),
		ActionText:  firstValue(row, cols.Action),
		HoursWorked: ParseHours(firstValue(row, cols.Hours)),
		NoteFields:  noteFields(row, cols),
	}

	employees := cols.Employees
	if len(employees) == 0 {
		employees = discoverFromRow(row, cols.EmployeePrefix)
	}
	rec.Participants = ResolveParticipants(row, employees)

	rec.Activity = s.classifier().Classify(rec.ActionText)
	ex := s.extractor().Extract(rec.NoteFields, rec.Activity)
	rec.Quantity = ex.Value
	rec.QuantityFound = ex.Found
	rec.QuantityField = ex.Field

	return rec
}

// RecordID derives a stable identifier from the source name and row index.
func RecordID(source string, index int) string {
	return uuid.NewSHA1(recordNamespace, []byte(source+"#"+strconv.Itoa(index))).String()
}

func firstValue(row domain.Row, aliases []string) string {
	for _, a := range aliases {
		if v := row.Get(a); v != "" {
			return v
		}
	}
	return ""
}

func noteFields(row domain.Row, cols Columns) map[string]string {
	notes := make(map[string]string)
	for k, v := range row {
		if cols.structured(k) {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			notes[k] = v
		}
	}
	return notes
}

// excelEpoch is day zero of the 1900 date system as Excel counts it.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate tries each layout in turn, then an Excel serial day number.
// Anything else is null.
func ParseDate(raw string, layouts []string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial >= 1 && serial < 2958466 {
		d := excelEpoch.AddDate(0, 0, int(serial))
		return &d
	}
	return nil
}

// ParseHours coerces an hours cell to a number. Invalid values are null,
// never an error.
func ParseHours(raw string) *float64 {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
