package domain

import (
	"strings"
	"time"
)

// DateLayout is the canonical date format for keys, flags and exports.
const DateLayout = "2006-01-02"

// Row is one parsed spreadsheet row keyed by trimmed column name. A blank
// cell is stored as "" and treated as null.
type Row map[string]string

// Get returns the trimmed cell value for column, or "" if absent.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r[column])
}

// Has reports whether the row carries the column at all, blank or not.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Record is one technician/job work entry after annotation. Records are
// read-only once annotated; filtering and aggregation only select and reduce.
type Record struct {
	ID       string
	Source   string
	RowIndex int

	Date        *time.Time
	Project     string
	Truck       string
	Reporter    string
	ActionText  string
	NoteFields  map[string]string
	HoursWorked *float64

	Participants []string

	// Derived at annotation time.
	Activity      ActivityCategory
	Quantity      float64
	QuantityFound bool
	QuantityField string
}

// Classified reports whether the record counts towards activity totals.
func (r *Record) Classified() bool {
	return r.Activity.Classified()
}

// Note returns the trimmed value of a note field, or "" if absent.
func (r *Record) Note(field string) string {
	return strings.TrimSpace(r.NoteFields[field])
}

// Hours returns the hours worked, treating null as zero.
func (r *Record) Hours() float64 {
	return Float64FromPtrWithDefault(0, r.HoursWorked)
}

// DateKey returns the record date as YYYY-MM-DD, or "" when null.
func (r *Record) DateKey() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format(DateLayout)
}

// SameDate reports whether the record falls on the given calendar day.
// A null record date never matches.
func (r *Record) SameDate(d time.Time) bool {
	if r.Date == nil {
		return false
	}
	y1, m1, d1 := r.Date.Date()
	y2, m2, d2 := d.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// HasParticipant reports whether name appears in the participant list.
func (r *Record) HasParticipant(name string) bool {
	for _, p := range r.Participants {
		if p == name {
			return true
		}
	}
	return false
}
