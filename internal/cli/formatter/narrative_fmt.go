package formatter

import (
	"strings"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/narrative"
)

// FormatNarrative renders narrative sections as one tree per
// (date, project) group.
func FormatNarrative(resp *app.NarrateResponse) string {
	if len(resp.Sections) == 0 {
		return NoDataMessage + "\n"
	}
	parts := make([]string, 0, len(resp.Sections))
	for _, s := range resp.Sections {
		parts = append(parts, RenderTree(SectionTitle(s), s.Sentences))
	}
	return strings.Join(parts, "\n")
}

// SectionTitle renders "Fri Jan 5, 2024 · Site A"; null parts show as
// "--".
func SectionTitle(s narrative.Section) string {
	project := s.Project
	if strings.TrimSpace(project) == "" {
		project = "--"
	}
	return StyleHeader.Render(HumanDate(s.Date)) + Dim(" · ") + Bold(project)
}
