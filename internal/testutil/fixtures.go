package testutil

import (
	"sync/atomic"
	"time"

	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/google/uuid"
)

var testRowCounter atomic.Int64

// Record options
type RecordOption func(*domain.Record)

// Date parses a YYYY-MM-DD literal and panics on bad input; for fixtures only.
func Date(s string) time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// DatePtr is Date returning a pointer.
func DatePtr(s string) *time.Time {
	d := Date(s)
	return &d
}

func WithDate(s string) RecordOption {
	return func(r *domain.Record) {
		r.Date = DatePtr(s)
	}
}

func WithProject(p string) RecordOption {
	return func(r *domain.Record) {
		r.Project = p
	}
}

func WithTruck(t string) RecordOption {
	return func(r *domain.Record) {
		r.Truck = t
	}
}

func WithAction(text string) RecordOption {
	return func(r *domain.Record) {
		r.ActionText = text
	}
}

func WithParticipants(names ...string) RecordOption {
	return func(r *domain.Record) {
		r.Participants = append([]string{}, names...)
	}
}

func WithHours(h float64) RecordOption {
	return func(r *domain.Record) {
		r.HoursWorked = &h
	}
}

func WithNote(field, text string) RecordOption {
	return func(r *domain.Record) {
		if r.NoteFields == nil {
			r.NoteFields = make(map[string]string)
		}
		r.NoteFields[field] = text
	}
}

// WithActivity sets the derived activity without running the classifier.
func WithActivity(a domain.ActivityCategory) RecordOption {
	return func(r *domain.Record) {
		r.Activity = a
	}
}

// WithQuantity sets a found quantity without running the extractor.
func WithQuantity(q float64) RecordOption {
	return func(r *domain.Record) {
		r.Quantity = q
		r.QuantityFound = true
		r.QuantityField = "Notes"
	}
}

// NewTestRecord returns an unclassified record with no data beyond an ID
// and row index; options fill in the rest.
func NewTestRecord(opts ...RecordOption) domain.Record {
	r := domain.Record{
		ID:         uuid.New().String(),
		Source:     "test.xlsx",
		RowIndex:   int(testRowCounter.Add(1)),
		NoteFields: map[string]string{},
		Activity:   domain.ActivityUnclassified,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// SiteARecords is the two-row scenario used across packages: both rows on
// 2024-01-05 at "Site A"; Amy lashes 500 ft, then Bob and Amy pull 300 ft.
func SiteARecords() []domain.Record {
	return []domain.Record{
		NewTestRecord(
			WithDate("2024-01-05"), WithProject("Site A"), WithTruck("T-12"),
			WithAction("Lashed Fiber"), WithNote("Notes", "Footage: 500"), WithNote("Fiber", "48ct"),
			WithParticipants("Amy"), WithHours(8),
			WithActivity(domain.ActivityLashedFiber), WithQuantity(500),
		),
		NewTestRecord(
			WithDate("2024-01-05"), WithProject("Site A"),
			WithAction("Pulled Fiber"), WithNote("Notes", "Footage: 300"),
			WithParticipants("Bob", "Amy"), WithHours(6),
			WithActivity(domain.ActivityPulledFiber), WithQuantity(300),
		),
	}
}
