// Package filter selects annotated records matching a FilterSpec.
package filter

import (
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// Apply returns the records matching spec, in their original order. The
// input slice and its records are never modified.
func Apply(records []domain.Record, spec domain.FilterSpec) []domain.Record {
	spec = spec.Normalized()
	out := make([]domain.Record, 0, len(records))
	for i := range records {
		if matches(&records[i], spec) {
			out = append(out, records[i])
		}
	}
	return out
}

// Matches reports whether a single record satisfies spec.
func Matches(rec domain.Record, spec domain.FilterSpec) bool {
	return matches(&rec, spec.Normalized())
}

// matches expects a normalized spec.
func matches(rec *domain.Record, spec domain.FilterSpec) bool {
	if spec.Date != nil && !rec.SameDate(*spec.Date) {
		return false
	}
	if spec.Project != "" && rec.Project != spec.Project {
		return false
	}
	if spec.Truck != "" && rec.Truck != spec.Truck {
		return false
	}
	if len(spec.Technicians) > 0 && !matchTechnicians(rec, spec.Technicians, spec.TechnicianMatch) {
		return false
	}
	if len(spec.Keywords) > 0 && !matchKeywords(rec, spec.Keywords, spec.KeywordFields) {
		return false
	}
	return true
}

func matchTechnicians(rec *domain.Record, techs []string, mode domain.MatchMode) bool {
	if mode == domain.MatchAll {
		for _, t := range techs {
			if !rec.HasParticipant(t) {
				return false
			}
		}
		return true
	}
	for _, t := range techs {
		if rec.HasParticipant(t) {
			return true
		}
	}
	return false
}

func matchKeywords(rec *domain.Record, keywords, fields []string) bool {
	for _, text := range searchTexts(rec, fields) {
		if ContainsAny(text, keywords) {
			return true
		}
	}
	return false
}

func searchTexts(rec *domain.Record, fields []string) []string {
	if len(fields) == 0 {
		texts := make([]string, 0, len(rec.NoteFields))
		for _, v := range rec.NoteFields {
			texts = append(texts, v)
		}
		return texts
	}
	texts := make([]string, 0, len(fields))
	for _, f := range fields {
		if v := rec.Note(f); v != "" {
			texts = append(texts, v)
		}
	}
	return texts
}

// ContainsAny reports whether text contains any keyword, ignoring case.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
