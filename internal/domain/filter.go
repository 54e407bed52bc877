package domain

import (
	"strings"
	"time"
)

// AllSentinel is the dropdown value meaning "no constraint".
const AllSentinel = "All"

// FilterSpec is an immutable query over an annotated record collection.
// Zero values mean "no constraint on that dimension".
type FilterSpec struct {
	Date            *time.Time
	Project         string
	Truck           string
	Technicians     []string
	TechnicianMatch MatchMode
	Keywords        []string
	// KeywordFields restricts which note fields keywords are searched in.
	// Empty means every note field on the record.
	KeywordFields []string
}

// IsUnset reports whether a string constraint is absent: blank or the
// "All" sentinel.
func IsUnset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, AllSentinel)
}

// Normalized returns a copy with sentinels cleared, blank technicians and
// keywords dropped, and the match mode defaulted to MatchAny. The receiver
// is left untouched.
func (f FilterSpec) Normalized() FilterSpec {
	out := FilterSpec{
		TechnicianMatch: f.TechnicianMatch,
	}
	if f.Date != nil {
		d := *f.Date
		out.Date = &d
	}
	if !IsUnset(f.Project) {
		out.Project = strings.TrimSpace(f.Project)
	}
	if !IsUnset(f.Truck) {
		out.Truck = strings.TrimSpace(f.Truck)
	}
	out.Technicians = nonBlank(f.Technicians, true)
	out.Keywords = nonBlank(f.Keywords, false)
	out.KeywordFields = nonBlank(f.KeywordFields, false)
	if out.TechnicianMatch == "" {
		out.TechnicianMatch = MatchAny
	}
	return out
}

// Empty reports whether the spec constrains nothing.
func (f FilterSpec) Empty() bool {
	n := f.Normalized()
	return n.Date == nil && n.Project == "" && n.Truck == "" &&
		len(n.Technicians) == 0 && len(n.Keywords) == 0
}

func nonBlank(vals []string, dropSentinel bool) []string {
	var out []string
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if dropSentinel && strings.EqualFold(v, AllSentinel) {
			continue
		}
		out = append(out, v)
	}
	return out
}
