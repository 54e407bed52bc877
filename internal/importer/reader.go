package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxXLSRows bounds legacy .xls reads.
const maxXLSRows = 100000

// Format identifies a spreadsheet encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// DetectFormat maps a file name onto a Format by extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ReadFile reads the first worksheet of the file at path.
func ReadFile(path string) (*Sheet, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Read(bytes.NewReader(data), format)
}

// Read parses r as the given format.
func Read(r io.Reader, format Format) (*Sheet, error) {
	switch format {
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatXLS:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading xls: %w", err)
		}
		return ReadXLS(bytes.NewReader(data))
	case FormatCSV:
		return ReadCSV(r)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ReadXLSX parses the first worksheet of an Office Open XML workbook.
// Cell values come back as displayed, so dates keep the sheet's format.
func ReadXLSX(r io.Reader) (*Sheet, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	name := file.GetSheetName(0)
	if name == "" {
		return nil, fmt.Errorf("no worksheet found: %w", ErrEmptySheet)
	}
	grid, err := file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}
	return FromGrid(name, grid)
}

// ReadXLS parses the first worksheet of a legacy BIFF workbook.
func ReadXLS(r io.ReadSeeker) (*Sheet, error) {
	wb, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("no worksheet found: %w", ErrEmptySheet)
	}
	name := ""
	if s := wb.GetSheet(0); s != nil {
		name = s.Name
	}
	return FromGrid(name, wb.ReadAllCells(maxXLSRows))
}

// ReadCSV parses comma-separated text with a header line. Ragged rows are
// accepted.
func ReadCSV(r io.Reader) (*Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(grid) > 0 && len(grid[0]) > 0 {
		grid[0][0] = strings.TrimPrefix(grid[0][0], "\ufeff")
	}
	return FromGrid("", grid)
}
