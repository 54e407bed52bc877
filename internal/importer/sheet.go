// Package importer reads field-work spreadsheets into header-keyed rows.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned for a file extension with no reader.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrEmptySheet is returned when the sheet has no header row.
	ErrEmptySheet = errors.New("worksheet is empty")
)

// Sheet is a parsed worksheet: trimmed, de-duplicated headers and one Row
// per non-blank data line.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []domain.Row
}

// FromGrid builds a Sheet from raw cell rows, the first being the header.
// Headers are trimmed; blank headers become "Unnamed: N" and repeated
// headers get ".1", ".2" suffixes so every column stays addressable. Rows
// with no non-blank cell are skipped. Short rows are padded and cells past
// the last header are ignored.
func FromGrid(name string, grid [][]string) (*Sheet, error) {
	headerIdx := -1
	for i, row := range grid {
		if !blankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrEmptySheet
	}

	headers := NormalizeHeaders(grid[headerIdx])
	sheet := &Sheet{Name: name, Headers: headers, Rows: []domain.Row{}}
	for _, raw := range grid[headerIdx+1:] {
		if blankRow(raw) {
			continue
		}
		row := make(domain.Row, len(headers))
		for c, h := range headers {
			if c < len(raw) {
				row[h] = strings.TrimSpace(raw[c])
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// NormalizeHeaders trims header cells and mangles blanks and duplicates.
func NormalizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	counts := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for used[name] {
			counts[h]++
			name = fmt.Sprintf("%s.%d", h, counts[h])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
