package app

import (
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

type ExportFormat string

const (
	ExportCSV    ExportFormat = "csv"
	ExportSQLite ExportFormat = "sqlite"
)

// ParseExportFormat accepts csv or sqlite; blank means csv.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return ExportCSV, nil
	case "sqlite", "db":
		return ExportSQLite, nil
	}
	return "", newRequestError(ErrInvalidFormat, "format %q (expected csv or sqlite)", s)
}

type ExportRequest struct {
	Filter domain.FilterSpec
	Path   string
	Format ExportFormat
}

type ExportResult struct {
	Path    string
	Format  ExportFormat
	Records int
}
