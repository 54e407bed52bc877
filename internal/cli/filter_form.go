package cli

import (
	"strings"

	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// fiberpayHuhTheme returns a huh theme matching the gruvbox palette.
func fiberpayHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.MultiSelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[✓] ")
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// filterSelection holds the values bound to the interactive filter form.
type filterSelection struct {
	Date     string
	Project  string
	Truck    string
	Techs    []string
	Match    string
	Keywords string
}

// selectionFromFlags seeds the form with whatever was passed on the
// command line.
func selectionFromFlags(f *filterFlags) filterSelection {
	sel := filterSelection{
		Date:     domain.CoalesceBlank(f.date, domain.AllSentinel),
		Project:  domain.CoalesceBlank(f.project, domain.AllSentinel),
		Truck:    domain.CoalesceBlank(f.truck, domain.AllSentinel),
		Techs:    append([]string(nil), f.techs...),
		Match:    domain.CoalesceBlank(f.match, string(domain.MatchAny)),
		Keywords: strings.Join(f.keywords, ", "),
	}
	return sel
}

func (s filterSelection) input(keywordFields []string) app.FilterInput {
	var keywords []string
	for _, k := range strings.Split(s.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	return app.FilterInput{
		Date:          s.Date,
		Project:       s.Project,
		Truck:         s.Truck,
		Technicians:   s.Techs,
		Match:         s.Match,
		Keywords:      keywords,
		KeywordFields: keywordFields,
	}
}

// withAll prepends the "All" sentinel to a dropdown's values.
func withAll(values []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(values)+1)
	opts = append(opts, huh.NewOption(domain.AllSentinel, domain.AllSentinel))
	for _, v := range values {
		opts = append(opts, huh.NewOption(v, v))
	}
	return opts
}

// newFilterForm builds the dropdowns for choosing a filtered view from the
// values present in the dataset.
func newFilterForm(opts aggregate.FilterOptions, sel *filterSelection) *huh.Form {
	techOpts := make([]huh.Option[string], 0, len(opts.Technicians))
	for _, t := range opts.Technicians {
		techOpts = append(techOpts, huh.NewOption(t, t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Date").
				Options(withAll(opts.Dates)...).
				Value(&sel.Date),
			huh.NewSelect[string]().
				Title("Project").
				Options(withAll(opts.Projects)...).
				Value(&sel.Project),
			huh.NewSelect[string]().
				Title("Truck").
				Options(withAll(opts.Trucks)...).
				Value(&sel.Truck),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Technicians").
				Description("None selected means everyone").
				Options(techOpts...).
				Value(&sel.Techs),
			huh.NewSelect[string]().
				Title("Match").
				Options(
					huh.NewOption("Any selected technician", string(domain.MatchAny)),
					huh.NewOption("All selected technicians", string(domain.MatchAll)),
				).
				Value(&sel.Match),
			huh.NewInput().
				Title("Keywords").
				Description("Comma-separated, matched in notes").
				Value(&sel.Keywords),
		),
	).WithTheme(fiberpayHuhTheme()).WithShowHelp(false)
}
