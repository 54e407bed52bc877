package formatter

import (
	"math"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders value as a horizontal bar scaled against peak. A
// positive value always shows at least one block.
func RenderBar(value, peak float64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := 0
	if peak > 0 && value > 0 {
		filled = int(math.Round(value / peak * float64(width)))
		if filled < 1 {
			filled = 1
		}
		if filled > width {
			filled = width
		}
	}
	return StyleAqua.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

// RenderBarTable renders a single-key table as a labelled bar chart. Wider
// tables fall back to FormatTable.
func RenderBarTable(t domain.Table, width int) string {
	if len(t.Keys) != 1 {
		return FormatTable(t)
	}
	peak := 0.0
	for _, r := range t.Rows {
		peak = math.Max(peak, r.Value)
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, []string{
			Bold(r.Key[0]),
			RenderBar(r.Value, peak, width),
			FormatValue(t.Reduction, r.Value),
		})
	}
	headers := []string{t.Keys[0].Title(), "", t.Reduction.Title()}
	return RenderTableAligned(headers, rows, []Align{AlignLeft, AlignLeft, AlignRight})
}
