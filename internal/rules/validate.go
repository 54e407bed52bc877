package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/annotate"
	"github.com/alexanderramin/fiberpay/internal/domain"
)

// Validate checks a rules file before compilation and returns every
// problem found, not just the first.
func Validate(f *File) []error {
	var errs []error

	if f.Columns != nil {
		errs = append(errs, validateAliases("columns.date", f.Columns.Date)...)
		errs = append(errs, validateAliases("columns.project", f.Columns.Project)...)
		errs = append(errs, validateAliases("columns.truck", f.Columns.Truck)...)
		errs = append(errs, validateAliases("columns.reporter", f.Columns.Reporter)...)
		errs = append(errs, validateAliases("columns.action", f.Columns.Action)...)
		errs = append(errs, validateAliases("columns.hours", f.Columns.Hours)...)
	}
	if f.Employees != nil {
		errs = append(errs, validateAliases("employees.columns", f.Employees.Columns)...)
		if len(f.Employees.Columns) == 0 && strings.TrimSpace(f.Employees.Prefix) == "" {
			errs = append(errs, fmt.Errorf("employees: either columns or prefix is required"))
		}
	}
	for i, layout := range f.DateLayouts {
		if strings.TrimSpace(layout) == "" {
			errs = append(errs, fmt.Errorf("date_layouts[%d] is blank", i))
		}
	}
	errs = append(errs, validateClassifier(f.Classifier)...)
	errs = append(errs, validateExtraction(f.Extraction)...)
	errs = append(errs, validateAliases("keyword_fields", f.KeywordFields)...)

	return errs
}

func validateAliases(prefix string, names []string) []error {
	var errs []error
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			errs = append(errs, fmt.Errorf("%s[%d] is blank", prefix, i))
			continue
		}
		if seen[n] {
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate column %q", prefix, i, n))
		}
		seen[n] = true
	}
	return errs
}

func validateClassifier(entries []ClassifierEntry) []error {
	var errs []error
	for i, e := range entries {
		prefix := fmt.Sprintf("classifier[%d]", i)
		if strings.TrimSpace(e.Pattern) == "" {
			errs = append(errs, fmt.Errorf("%s.pattern is required", prefix))
		}
		errs = append(errs, validateActivity(prefix, e.Activity)...)
	}
	return errs
}

func validateExtraction(entries []ExtractionEntry) []error {
	var errs []error
	seen := make(map[domain.ActivityCategory]bool)
	for i, e := range entries {
		prefix := fmt.Sprintf("extraction[%d]", i)

		actErrs := validateActivity(prefix, e.Activity)
		errs = append(errs, actErrs...)
		if len(actErrs) == 0 {
			a, _ := domain.ParseActivityCategory(e.Activity)
			if seen[a] {
				errs = append(errs, fmt.Errorf("%s.activity: duplicate rule for %q", prefix, e.Activity))
			}
			seen[a] = true
		}

		if len(e.Fields) == 0 {
			errs = append(errs, fmt.Errorf("%s.fields is required", prefix))
		}
		errs = append(errs, validateAliases(prefix+".fields", e.Fields)...)

		if e.Pattern == "" {
			errs = append(errs, fmt.Errorf("%s.pattern is required", prefix))
		} else if re, err := regexp.Compile(e.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("%s.pattern: %w", prefix, err))
		} else if re.NumSubexp() > 1 {
			errs = append(errs, fmt.Errorf("%s.pattern: at most one capture group allowed, got %d", prefix, re.NumSubexp()))
		}

		if _, err := annotate.ParsePick(e.Pick); err != nil {
			errs = append(errs, fmt.Errorf("%s.pick: %w", prefix, err))
		}
	}
	return errs
}

func validateActivity(prefix, raw string) []error {
	if strings.TrimSpace(raw) == "" {
		return []error{fmt.Errorf("%s.activity is required", prefix)}
	}
	a, err := domain.ParseActivityCategory(raw)
	if err != nil {
		return []error{fmt.Errorf("%s.activity: %w", prefix, err)}
	}
	if a == domain.ActivityUnclassified {
		return []error{fmt.Errorf("%s.activity: %q cannot be targeted by a rule", prefix, raw)}
	}
	return nil
}
