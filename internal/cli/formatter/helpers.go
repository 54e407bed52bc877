package formatter

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		inner := StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
		return boxStyle.Render(inner)
	}
	return boxStyle.Render(content)
}

// FormatNumber renders v rounded to two decimals with thousands
// separators and no trailing zeros: 1250 → "1,250", 6.5 → "6.5".
func FormatNumber(v float64) string {
	v = math.Round(v*100) / 100
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if v < 0 {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatHours renders an hours total, e.g. "14.5 h".
func FormatHours(v float64) string {
	return FormatNumber(v) + " h"
}

// FormatFeet renders a footage total, e.g. "1,250 ft".
func FormatFeet(v float64) string {
	return FormatNumber(v) + " ft"
}

// FormatValue renders v in the unit of reduction r.
func FormatValue(r domain.Reduction, v float64) string {
	switch r {
	case domain.ReduceHours:
		return FormatHours(v)
	case domain.ReduceQuantity:
		return FormatFeet(v)
	default:
		return FormatNumber(v)
	}
}

// HumanDate renders a record date such as "Fri Jan 5, 2024"; nil is "--".
func HumanDate(t *time.Time) string {
	if t == nil {
		return "--"
	}
	return t.Format("Mon Jan 2, 2006")
}

// Placeholder renders blank values as a dimmed "--".
func Placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}

// Truncate shortens s to width visible characters, ending in "…".
func Truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width == 1 || len(r) <= 1 {
		return "…"
	}
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}
