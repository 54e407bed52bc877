package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/annotate"
	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/importer"
	"github.com/alexanderramin/fiberpay/internal/rules"
)

type datasetService struct {
	rules    rules.Ruleset
	workers  int
	observer UseCaseObserver
}

// NewDatasetService annotates workbooks with ruleset on up to workers
// goroutines.
func NewDatasetService(ruleset rules.Ruleset, workers int, observers ...UseCaseObserver) DatasetService {
	return &datasetService{
		rules:    ruleset,
		workers:  workers,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *datasetService) Load(ctx context.Context, path string) (ds *app.Dataset, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"path": path}
	defer observe(ctx, s.observer, "load-dataset", startedAt, fields, &err)

	sheet, err := importer.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading workbook: %w", err)
	}
	fields["sheet"] = sheet.Name
	fields["rows"] = len(sheet.Rows)

	source := filepath.Base(path)
	schema := s.rules.Schema.ForHeaders(sheet.Headers)
	records, err := annotate.AnnotateParallel(ctx, source, sheet.Rows, schema, s.workers)
	if err != nil {
		return nil, fmt.Errorf("annotating %s: %w", source, err)
	}

	classified, found := 0, 0
	for i := range records {
		if records[i].Classified() {
			classified++
		}
		if records[i].QuantityFound {
			found++
		}
	}
	fields["classified"] = classified
	fields["quantity_found"] = found

	return &app.Dataset{
		Source:        source,
		Sheet:         sheet.Name,
		Headers:       sheet.Headers,
		Records:       records,
		Options:       aggregate.Options(records),
		LoadedAt:      startedAt,
		KeywordFields: s.rules.KeywordFields,
	}, nil
}
