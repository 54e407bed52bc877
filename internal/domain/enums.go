package domain

import (
	"fmt"
	"strings"
)

type ActivityCategory string

const (
	ActivityLashedFiber  ActivityCategory = "lashed_fiber"
	ActivityPulledFiber  ActivityCategory = "pulled_fiber"
	ActivityStrand       ActivityCategory = "strand"
	ActivityDriveOff     ActivityCategory = "drive_off"
	ActivityUnclassified ActivityCategory = "unclassified"
)

// ActivityCategories is the closed set used for activity-keyed aggregation.
// Unclassified is deliberately absent.
func ActivityCategories() []ActivityCategory {
	return []ActivityCategory{
		ActivityLashedFiber,
		ActivityPulledFiber,
		ActivityStrand,
		ActivityDriveOff,
	}
}

// Classified reports whether the category takes part in activity totals.
func (a ActivityCategory) Classified() bool {
	switch a {
	case ActivityLashedFiber, ActivityPulledFiber, ActivityStrand, ActivityDriveOff:
		return true
	default:
		return false
	}
}

// Label returns the display name used in tables and narratives.
func (a ActivityCategory) Label() string {
	switch a {
	case ActivityLashedFiber:
		return "Lashed Fiber"
	case ActivityPulledFiber:
		return "Pulled Fiber"
	case ActivityStrand:
		return "Strand"
	case ActivityDriveOff:
		return "Drive Off"
	default:
		return "Unclassified"
	}
}

// ParseActivityCategory accepts either the stored value ("lashed_fiber") or
// the display label ("Lashed Fiber"), case-insensitively.
func ParseActivityCategory(s string) (ActivityCategory, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	switch ActivityCategory(norm) {
	case ActivityLashedFiber, ActivityPulledFiber, ActivityStrand, ActivityDriveOff, ActivityUnclassified:
		return ActivityCategory(norm), nil
	}
	return "", fmt.Errorf("unknown activity category %q", s)
}

type MatchMode string

const (
	MatchAny MatchMode = "any"
	MatchAll MatchMode = "all"
)

// ParseMatchMode maps a flag value onto a MatchMode. Blank means MatchAny.
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "any":
		return MatchAny, nil
	case "all":
		return MatchAll, nil
	}
	return "", fmt.Errorf("invalid match mode %q (expected any or all)", s)
}

type GroupKey string

const (
	KeyTechnician GroupKey = "technician"
	KeyDate       GroupKey = "date"
	KeyProject    GroupKey = "project"
	KeyActivity   GroupKey = "activity"
)

// ValidGroupKeys is the canonical set of accepted grouping keys.
var ValidGroupKeys = map[GroupKey]bool{
	KeyTechnician: true,
	KeyDate:       true,
	KeyProject:    true,
	KeyActivity:   true,
}

func ParseGroupKey(s string) (GroupKey, error) {
	k := GroupKey(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "tech", "employee":
		k = KeyTechnician
	}
	if !ValidGroupKeys[k] {
		return "", fmt.Errorf("invalid group key %q (expected technician, date, project or activity)", s)
	}
	return k, nil
}

// Title is the column header used when rendering a table keyed by k.
func (k GroupKey) Title() string {
	switch k {
	case KeyTechnician:
		return "Tech"
	case KeyDate:
		return "Date"
	case KeyProject:
		return "Project"
	case KeyActivity:
		return "Activity"
	default:
		return string(k)
	}
}

type Reduction string

const (
	ReduceHours    Reduction = "hours"
	ReduceQuantity Reduction = "quantity"
	ReduceCount    Reduction = "count"
)

func ParseReduction(s string) (Reduction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hours", "hours_worked":
		return ReduceHours, nil
	case "quantity", "footage", "feet":
		return ReduceQuantity, nil
	case "count", "rows":
		return ReduceCount, nil
	}
	return "", fmt.Errorf("invalid reduction %q (expected hours, quantity or count)", s)
}

// Title is the value column header for a table reduced by r.
func (r Reduction) Title() string {
	switch r {
	case ReduceHours:
		return "Hours Worked"
	case ReduceQuantity:
		return "Footage"
	case ReduceCount:
		return "Entries"
	default:
		return string(r)
	}
}
