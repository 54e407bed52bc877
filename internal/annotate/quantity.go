package annotate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// Pick selects which pattern match is authoritative when a field holds
// several.
type Pick string

const (
	PickFirst Pick = "first"
	PickLast  Pick = "last"
)

func ParsePick(s string) (Pick, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return PickFirst, nil
	case "last":
		return PickLast, nil
	}
	return "", fmt.Errorf("invalid pick %q (expected first or last)", s)
}

// Built-in extraction patterns.
const (
	// LabeledFootagePattern captures the number after a "Footage" label,
	// optionally followed by ':' or '-'.
	LabeledFootagePattern = `(?i)footage\s*[:\-]?\s*(\d[\d,]*(?:\.\d+)?)`
	// AnyNumberPattern matches every integer or comma-grouped number.
	AnyNumberPattern = `\d[\d,]*(?:\.\d+)?`
)

// DefaultFallbackFields are searched, in order, after an activity's primary
// field.
func DefaultFallbackFields() []string {
	return []string{"Notes", "Billing Notes"}
}

// ExtractionRule is the declarative (source-field priority, pattern,
// tie-break) triple for one activity.
type ExtractionRule struct {
	Activity domain.ActivityCategory
	Fields   []string
	Pattern  *regexp.Regexp
	Pick     Pick
}

// Extraction is the outcome of a quantity lookup. Found distinguishes a
// literal zero from "no quantity in the notes".
type Extraction struct {
	Value float64
	Found bool
	Field string
}

// Apply runs the rule's pattern over a single text and returns the chosen
// number. The pattern's first capture group is used when present, the whole
// match otherwise.
func (r ExtractionRule) Apply(text string) (float64, bool) {
	if r.Pattern == nil || strings.TrimSpace(text) == "" {
		return 0, false
	}
	matches := r.Pattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, false
	}
	m := matches[0]
	if r.Pick == PickLast {
		m = matches[len(matches)-1]
	}
	token := m[0]
	if len(m) > 1 {
		token = m[1]
	}
	return parseQuantity(token)
}

func parseQuantity(token string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(token), ",", "")
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Extractor holds one extraction rule per activity.
type Extractor struct {
	rules map[domain.ActivityCategory]ExtractionRule
}

// NewExtractor indexes rules by activity. A later rule for the same
// activity replaces an earlier one.
func NewExtractor(rules ...ExtractionRule) *Extractor {
	e := &Extractor{rules: make(map[domain.ActivityCategory]ExtractionRule, len(rules))}
	for _, r := range rules {
		e.rules[r.Activity] = r
	}
	return e
}

// DefaultExtractionRules returns the built-in rules. Strand notes append a
// running total, so the last number wins there; everything else needs an
// explicit "Footage" label.
func DefaultExtractionRules() []ExtractionRule {
	labeled := regexp.MustCompile(LabeledFootagePattern)
	anyNumber := regexp.MustCompile(AnyNumberPattern)
	fields := func(primary string) []string {
		return append([]string{primary}, DefaultFallbackFields()...)
	}
	return []ExtractionRule{
		{Activity: domain.ActivityLashedFiber, Fields: fields("Fiber Lash Info"), Pattern: labeled, Pick: PickFirst},
		{Activity: domain.ActivityPulledFiber, Fields: fields("Fiber Pull Info"), Pattern: labeled, Pick: PickFirst},
		{Activity: domain.ActivityStrand, Fields: fields("Stand info"), Pattern: anyNumber, Pick: PickLast},
		{Activity: domain.ActivityDriveOff, Fields: fields("Drive Off Info"), Pattern: labeled, Pick: PickFirst},
	}
}

// DefaultExtractor returns an Extractor over DefaultExtractionRules.
func DefaultExtractor() *Extractor {
	return NewExtractor(DefaultExtractionRules()...)
}

// Rule returns the rule registered for an activity.
func (e *Extractor) Rule(activity domain.ActivityCategory) (ExtractionRule, bool) {
	r, ok := e.rules[activity]
	return r, ok
}

// Extract walks the rule's fields in priority order and returns the first
// number recovered. Missing or blank fields are skipped; a field without a
// match falls through to the next. No rule, or no match anywhere, yields
// the zero Extraction.
func (e *Extractor) Extract(notes map[string]string, activity domain.ActivityCategory) Extraction {
	if !activity.Classified() {
		return Extraction{}
	}
	rule, ok := e.rules[activity]
	if !ok {
		return Extraction{}
	}
	for _, field := range rule.Fields {
		text := strings.TrimSpace(notes[field])
		if text == "" {
			continue
		}
		if v, ok := rule.Apply(text); ok {
			return Extraction{Value: v, Found: true, Field: field}
		}
	}
	return Extraction{}
}
