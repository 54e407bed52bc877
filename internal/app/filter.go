package app

import (
	"strings"
	"time"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// FilterInput is a filter as typed by a user: every value is still a
// string. Blank or "All" leaves a dimension unconstrained.
type FilterInput struct {
	Date          string
	Project       string
	Truck         string
	Technicians   []string
	Match         string
	Keywords      []string
	KeywordFields []string
}

// Spec parses the input into a FilterSpec.
func (in FilterInput) Spec() (domain.FilterSpec, error) {
	spec := domain.FilterSpec{
		Project:       in.Project,
		Truck:         in.Truck,
		Technicians:   in.Technicians,
		Keywords:      in.Keywords,
		KeywordFields: in.KeywordFields,
	}

	if !domain.IsUnset(in.Date) {
		d, err := time.Parse(domain.DateLayout, strings.TrimSpace(in.Date))
		if err != nil {
			return domain.FilterSpec{}, newRequestError(ErrInvalidDate, "date %q must be YYYY-MM-DD", in.Date)
		}
		spec.Date = &d
	}

	mode, err := domain.ParseMatchMode(in.Match)
	if err != nil {
		return domain.FilterSpec{}, newRequestError(ErrInvalidMatchMode, "%v", err)
	}
	spec.TechnicianMatch = mode

	return spec.Normalized(), nil
}

// Describe renders the active constraints for headers and export metadata.
// An unconstrained spec is "all records".
func Describe(spec domain.FilterSpec) string {
	n := spec.Normalized()
	var parts []string
	if n.Date != nil {
		parts = append(parts, "date="+n.Date.Format(domain.DateLayout))
	}
	if n.Project != "" {
		parts = append(parts, "project="+n.Project)
	}
	if n.Truck != "" {
		parts = append(parts, "truck="+n.Truck)
	}
	if len(n.Technicians) > 0 {
		parts = append(parts, "tech("+string(n.TechnicianMatch)+")="+strings.Join(n.Technicians, ","))
	}
	if len(n.Keywords) > 0 {
		parts = append(parts, "keyword="+strings.Join(n.Keywords, ","))
	}
	if len(parts) == 0 {
		return "all records"
	}
	return strings.Join(parts, " ")
}
