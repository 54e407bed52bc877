// Package narrative renders (date, project) groups of records as
// plain-English work summaries.
package narrative

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/domain"
)

// DefaultFiberField is the note column describing the fiber used.
const DefaultFiberField = "Fiber"

const (
	unknownTruck  = "Unknown Truck"
	unknownAction = "Unknown Action"
	unknownFiber  = "Unknown Fiber"
)

type Config struct {
	// FiberField names the note column read for the fiber description.
	FiberField string
}

// Section is one rendered (date, project) group.
type Section struct {
	Date      *time.Time
	Project   string
	Sentences []string
}

// DateKey returns the section date as YYYY-MM-DD, or "" when null.
func (s Section) DateKey() string {
	if s.Date == nil {
		return ""
	}
	return s.Date.Format(domain.DateLayout)
}

// Narrate groups records by (date, project) in encounter order and renders
// one sentence per qualifying record. Sections with no sentences are
// omitted, so an empty result means there is nothing to report.
func Narrate(records []domain.Record, cfg Config) []Section {
	if cfg.FiberField == "" {
		cfg.FiberField = DefaultFiberField
	}
	sections := []Section{}
	for _, g := range aggregate.GroupByDateProject(records) {
		var sentences []string
		for i := range g.Records {
			if s, ok := Sentence(&g.Records[i], cfg); ok {
				sentences = append(sentences, s)
			}
		}
		if len(sentences) == 0 {
			continue
		}
		sections = append(sections, Section{Date: g.Date, Project: g.Project, Sentences: sentences})
	}
	return sections
}

// Sentence renders a single record. It reports false when the record has
// no participants or less than one whole foot of quantity.
func Sentence(rec *domain.Record, cfg Config) (string, bool) {
	if len(rec.Participants) == 0 || math.Trunc(rec.Quantity) <= 0 {
		return "", false
	}
	field := domain.CoalesceStr(cfg.FiberField, DefaultFiberField)
	return fmt.Sprintf("%s used %s to do %s with %s for %d feet.",
		JoinNames(rec.Participants),
		domain.CoalesceBlank(rec.Truck, unknownTruck),
		domain.CoalesceBlank(rec.ActionText, unknownAction),
		domain.CoalesceBlank(rec.Note(field), unknownFiber),
		int64(math.Trunc(rec.Quantity)),
	), true
}

// JoinNames joins names as "A", "A and B", "A, B and C".
func JoinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
