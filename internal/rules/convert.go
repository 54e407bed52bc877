package rules

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/annotate"
	"github.com/alexanderramin/fiberpay/internal/domain"
)

// Ruleset is a compiled rules file.
type Ruleset struct {
	Schema annotate.Schema
	// KeywordFields restricts keyword search to these note columns; empty
	// means all note columns.
	KeywordFields []string
}

// Default returns the built-in ruleset.
func Default() Ruleset {
	return Ruleset{Schema: annotate.DefaultSchema()}
}

// Load reads, validates and compiles the rules file at path. An empty path
// yields the built-in defaults.
func Load(path string) (Ruleset, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	f, err := LoadFile(path)
	if err != nil {
		return Ruleset{}, err
	}
	return Compile(f)
}

// Compile validates f and converts it into a Ruleset. Sections absent from
// f keep their defaults. All validation problems are reported together.
func Compile(f *File) (Ruleset, error) {
	if errs := Validate(f); len(errs) > 0 {
		return Ruleset{}, fmt.Errorf("invalid rules: %w", errors.Join(errs...))
	}

	schema := annotate.DefaultSchema()

	if c := f.Columns; c != nil {
		schema.Columns.Date = orDefault(c.Date, schema.Columns.Date)
		schema.Columns.Project = orDefault(c.Project, schema.Columns.Project)
		schema.Columns.Truck = orDefault(c.Truck, schema.Columns.Truck)
		schema.Columns.Reporter = orDefault(c.Reporter, schema.Columns.Reporter)
		schema.Columns.Action = orDefault(c.Action, schema.Columns.Action)
		schema.Columns.Hours = orDefault(c.Hours, schema.Columns.Hours)
	}
	if e := f.Employees; e != nil {
		schema.Columns.Employees = trimAll(e.Columns)
		schema.Columns.EmployeePrefix = domain.CoalesceBlank(e.Prefix, annotate.DefaultEmployeePrefix)
	}
	if len(f.DateLayouts) > 0 {
		schema.DateLayouts = append([]string{}, f.DateLayouts...)
	}

	if len(f.Classifier) > 0 {
		rules := make([]annotate.ClassifierRule, 0, len(f.Classifier))
		for _, c := range f.Classifier {
			a, _ := domain.ParseActivityCategory(c.Activity)
			rules = append(rules, annotate.ClassifierRule{Pattern: c.Pattern, Category: a})
		}
		schema.Classifier = annotate.NewClassifier(rules...)
	}

	if len(f.Extraction) > 0 {
		// Listed activities replace their default rule; the rest keep it.
		rules := annotate.DefaultExtractionRules()
		for _, e := range f.Extraction {
			r, err := convertExtraction(e)
			if err != nil {
				return Ruleset{}, err
			}
			rules = append(rules, r)
		}
		schema.Extractor = annotate.NewExtractor(rules...)
	}

	return Ruleset{
		Schema:        schema,
		KeywordFields: trimAll(f.KeywordFields),
	}, nil
}

func convertExtraction(e ExtractionEntry) (annotate.ExtractionRule, error) {
	a, err := domain.ParseActivityCategory(e.Activity)
	if err != nil {
		return annotate.ExtractionRule{}, err
	}
	re, err := regexp.Compile(e.Pattern)
	if err != nil {
		return annotate.ExtractionRule{}, fmt.Errorf("compiling pattern for %s: %w", a, err)
	}
	pick, err := annotate.ParsePick(e.Pick)
	if err != nil {
		return annotate.ExtractionRule{}, err
	}
	return annotate.ExtractionRule{
		Activity: a,
		Fields:   trimAll(e.Fields),
		Pattern:  re,
		Pick:     pick,
	}, nil
}

// DefaultFile renders the built-in rules in file form, a starting point
// for a custom rules file.
func DefaultFile() *File {
	cols := annotate.DefaultColumns()
	f := &File{
		Columns: &ColumnsRules{
			Date:     cols.Date,
			Project:  cols.Project,
			Truck:    cols.Truck,
			Reporter: cols.Reporter,
			Action:   cols.Action,
			Hours:    cols.Hours,
		},
		Employees: &EmployeeRules{
			Prefix: annotate.DefaultEmployeePrefix,
		},
		DateLayouts: annotate.DefaultDateLayouts(),
	}
	for _, r := range annotate.DefaultClassifierRules() {
		f.Classifier = append(f.Classifier, ClassifierEntry{Pattern: r.Pattern, Activity: string(r.Category)})
	}
	for _, r := range annotate.DefaultExtractionRules() {
		f.Extraction = append(f.Extraction, ExtractionEntry{
			Activity: string(r.Activity),
			Fields:   r.Fields,
			Pattern:  r.Pattern.String(),
			Pick:     string(r.Pick),
		})
	}
	return f
}

func orDefault(vals, def []string) []string {
	if len(vals) == 0 {
		return def
	}
	return trimAll(vals)
}

func trimAll(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		out = append(out, strings.TrimSpace(v))
	}
	return out
}
