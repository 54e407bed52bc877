// Package export writes filtered records out as CSV or as a SQLite file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// FixedColumns lead every CSV export; note columns follow in name order.
var FixedColumns = []string{
	"Date", "Project", "Truck", "Reporter", "Action", "Hours Worked",
	"Participants", "Activity", "Footage", "Footage Source",
}

// Columns returns the CSV header for records.
func Columns(records []domain.Record) []string {
	seen := map[string]bool{}
	for _, c := range FixedColumns {
		seen[c] = true
	}
	var notes []string
	for i := range records {
		for field := range records[i].NoteFields {
			if !seen[field] {
				seen[field] = true
				notes = append(notes, field)
			}
		}
	}
	sort.Strings(notes)
	return append(append([]string{}, FixedColumns...), notes...)
}

// WriteCSV writes one line per record under the Columns header. Null
// values are written as empty cells.
func WriteCSV(w io.Writer, records []domain.Record) error {
	cols := Columns(records)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	noteCols := cols[len(FixedColumns):]
	for i := range records {
		if err := cw.Write(csvRow(&records[i], noteCols)); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

func csvRow(rec *domain.Record, noteCols []string) []string {
	hours := ""
	if rec.HoursWorked != nil {
		hours = formatNumber(*rec.HoursWorked)
	}
	activity, footage := "", ""
	if rec.Classified() {
		activity = rec.Activity.Label()
		if rec.QuantityFound {
			footage = formatNumber(rec.Quantity)
		}
	}
	row := []string{
		rec.DateKey(),
		rec.Project,
		rec.Truck,
		rec.Reporter,
		rec.ActionText,
		hours,
		strings.Join(rec.Participants, ", "),
		activity,
		footage,
		rec.QuantityField,
	}
	for _, c := range noteCols {
		row = append(row, rec.NoteFields[c])
	}
	return row
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
