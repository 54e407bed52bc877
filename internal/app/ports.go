package app

import "context"

type LoadDatasetUseCase interface {
	Load(ctx context.Context, path string) (*Dataset, error)
}

type ReportUseCase interface {
	Report(ctx context.Context, ds *Dataset, req ReportRequest) (*ReportResponse, error)
	Narrate(ctx context.Context, ds *Dataset, req NarrateRequest) (*NarrateResponse, error)
}

type ExportUseCase interface {
	Export(ctx context.Context, ds *Dataset, req ExportRequest) (*ExportResult, error)
}
