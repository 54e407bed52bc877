package service

import (
	"context"
	"time"

	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/alexanderramin/fiberpay/internal/filter"
	"github.com/alexanderramin/fiberpay/internal/narrative"
)

type reportService struct {
	observer UseCaseObserver
}

func NewReportService(observers ...UseCaseObserver) ReportService {
	return &reportService{observer: useCaseObserverOrNoop(observers)}
}

func (s *reportService) Report(ctx context.Context, ds *app.Dataset, req app.ReportRequest) (resp *app.ReportResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"source": ds.Source}
	defer observe(ctx, s.observer, "report", startedAt, fields, &err)

	var custom *aggregate.Request
	if len(req.GroupBy) > 0 {
		r, err := app.ParseGrouping(req.GroupBy, req.Reduction)
		if err != nil {
			return nil, err
		}
		custom = &r
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spec := withKeywordFields(req.Filter, ds)
	records := filter.Apply(ds.Records, spec)
	fields["matched"] = len(records)

	resp = &app.ReportResponse{
		Filter:              app.Describe(spec),
		Empty:               len(records) == 0,
		Totals:              aggregate.Summarize(records),
		TechnicianHours:     aggregate.ByTechnician(records, domain.ReduceHours),
		DailyHours:          aggregate.DailyTrend(records, domain.ReduceHours),
		ProjectHours:        aggregate.ByProject(records, domain.ReduceHours),
		FootageByActivity:   aggregate.ByActivity(records, domain.ReduceQuantity),
		FootageByTechnician: aggregate.ByTechnician(records, domain.ReduceQuantity),
		Keywords:            aggregate.KeywordMentions(records, req.Keywords, spec.KeywordFields),
	}
	if custom != nil {
		t, err := aggregate.Aggregate(records, *custom)
		if err != nil {
			return nil, err
		}
		resp.Custom = &t
	}
	return resp, nil
}

func (s *reportService) Narrate(ctx context.Context, ds *app.Dataset, req app.NarrateRequest) (resp *app.NarrateResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"source": ds.Source}
	defer observe(ctx, s.observer, "narrate", startedAt, fields, &err)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spec := withKeywordFields(req.Filter, ds)
	records := filter.Apply(ds.Records, spec)
	sections := narrative.Narrate(records, narrative.Config{FiberField: req.FiberField})
	fields["matched"] = len(records)
	fields["sections"] = len(sections)

	return &app.NarrateResponse{
		Filter:   app.Describe(spec),
		Sections: sections,
	}, nil
}

// withKeywordFields applies the dataset's default keyword fields when the
// request names none.
func withKeywordFields(spec domain.FilterSpec, ds *app.Dataset) domain.FilterSpec {
	if len(spec.KeywordFields) == 0 && len(ds.KeywordFields) > 0 {
		spec.KeywordFields = append([]string(nil), ds.KeywordFields...)
	}
	return spec
}
