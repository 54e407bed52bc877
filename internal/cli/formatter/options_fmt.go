package formatter

import (
	"strings"

	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/app"
)

// FormatOptions lists the distinct filter values present in a dataset.
func FormatOptions(opts aggregate.FilterOptions) string {
	var b strings.Builder
	groups := []struct {
		title  string
		values []string
	}{
		{"Dates", opts.Dates},
		{"Projects", opts.Projects},
		{"Trucks", opts.Trucks},
		{"Technicians", opts.Technicians},
	}
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(g.title) + "\n")
		if len(g.values) == 0 {
			b.WriteString(Dim("none") + "\n")
			continue
		}
		for _, v := range g.values {
			b.WriteString("  " + v + "\n")
		}
	}
	return b.String()
}

// FormatExportResult confirms a finished export.
func FormatExportResult(res *app.ExportResult) string {
	return StyleGreen.Render("✔ ") + "Exported " + Bold(FormatNumber(float64(res.Records))) +
		" records to " + res.Path + Dim(" ("+string(res.Format)+")") + "\n"
}

// FormatValidationErrors lists every problem found in a rules file.
func FormatValidationErrors(errs []error) string {
	var b strings.Builder
	b.WriteString(StyleRed.Render("Rules file has problems:") + "\n")
	for _, err := range errs {
		b.WriteString(StyleRed.Render("  ✖ ") + err.Error() + "\n")
	}
	return b.String()
}
