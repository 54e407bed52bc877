package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/domain"
)

// NoDataMessage is shown when a filter leaves nothing to report.
const NoDataMessage = "No data for current filters."

// FormatReport renders the dashboard for one filtered view. Ranking
// tables are drawn as bar charts barWidth blocks wide.
func FormatReport(resp *app.ReportResponse, barWidth int) string {
	var b strings.Builder
	b.WriteString(Dim("Filter: "+resp.Filter) + "\n\n")

	if resp.Empty {
		b.WriteString(StyleYellow.Render(NoDataMessage) + "\n")
		return RenderBox("Report", b.String())
	}

	b.WriteString(FormatTotals(resp.Totals) + "\n")

	sections := []struct {
		title string
		table domain.Table
	}{
		{"Hours by Technician", resp.TechnicianHours},
		{"Daily Hours Trend", resp.DailyHours},
		{"Hours by Project", resp.ProjectHours},
		{"Footage by Activity", resp.FootageByActivity},
		{"Footage by Technician", resp.FootageByTechnician},
	}
	for _, s := range sections {
		b.WriteString("\n" + Header(s.title) + "\n")
		if s.table.Empty() {
			b.WriteString(Dim("nothing recorded") + "\n")
			continue
		}
		b.WriteString(RenderBarTable(s.table, barWidth))
	}

	if len(resp.Keywords) > 0 {
		b.WriteString("\n" + Header("Keyword Mentions in Notes") + "\n")
		b.WriteString(FormatKeywords(resp.Keywords))
	}

	if resp.Custom != nil {
		b.WriteString("\n" + Header(customTitle(*resp.Custom)) + "\n")
		if resp.Custom.Empty() {
			b.WriteString(Dim("nothing recorded") + "\n")
		} else {
			b.WriteString(FormatTable(*resp.Custom))
		}
	}

	return RenderBox("Report", strings.TrimRight(b.String(), "\n"))
}

// FormatTotals renders the headline metrics on one line.
func FormatTotals(t aggregate.Totals) string {
	parts := []string{
		Bold("Total Hours Worked: ") + StyleGreen.Render(FormatHours(t.Hours)),
		Bold("Footage: ") + StyleGreen.Render(FormatFeet(t.Quantity)),
		Bold("Entries: ") + strconv.Itoa(t.Records),
		Bold("Technicians: ") + strconv.Itoa(t.Technicians),
	}
	return strings.Join(parts, Dim("  ·  "))
}

// FormatTable renders a grouped table with one column per key, the value
// column and a total line.
func FormatTable(t domain.Table) string {
	headers := make([]string, 0, len(t.Keys)+1)
	align := make([]Align, 0, len(t.Keys)+1)
	for _, k := range t.Keys {
		headers = append(headers, k.Title())
		align = append(align, AlignLeft)
	}
	headers = append(headers, t.Reduction.Title())
	align = append(align, AlignRight)

	rows := make([][]string, 0, len(t.Rows)+1)
	for _, r := range t.Rows {
		row := append([]string{}, r.Key...)
		rows = append(rows, append(row, FormatValue(t.Reduction, r.Value)))
	}
	if len(t.Keys) > 0 {
		total := make([]string, len(t.Keys))
		total[0] = Dim("Total")
		rows = append(rows, append(total, Bold(FormatValue(t.Reduction, t.Total()))))
	}
	return RenderTableAligned(headers, rows, align)
}

// FormatKeywords renders keyword mention counts.
func FormatKeywords(counts []aggregate.KeywordCount) string {
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		n := strconv.Itoa(c.Count)
		if c.Count == 0 {
			n = Dim(n)
		}
		rows = append(rows, []string{c.Keyword, n})
	}
	return RenderTableAligned([]string{"Keyword", "Mentions"}, rows, []Align{AlignLeft, AlignRight})
}

func customTitle(t domain.Table) string {
	keys := make([]string, len(t.Keys))
	for i, k := range t.Keys {
		keys[i] = k.Title()
	}
	return fmt.Sprintf("%s by %s", t.Reduction.Title(), strings.Join(keys, " and "))
}
