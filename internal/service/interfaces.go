package service

import (
	"context"

	"github.com/alexanderramin/fiberpay/internal/app"
)

// DatasetService reads and annotates a workbook.
type DatasetService interface {
	Load(ctx context.Context, path string) (*app.Dataset, error)
}

type ReportService interface {
	Report(ctx context.Context, ds *app.Dataset, req app.ReportRequest) (*app.ReportResponse, error)
	Narrate(ctx context.Context, ds *app.Dataset, req app.NarrateRequest) (*app.NarrateResponse, error)
}

type ExportService interface {
	Export(ctx context.Context, ds *app.Dataset, req app.ExportRequest) (*app.ExportResult, error)
}

var (
	_ app.LoadDatasetUseCase = DatasetService(nil)
	_ app.ReportUseCase      = ReportService(nil)
	_ app.ExportUseCase      = ExportService(nil)
)
