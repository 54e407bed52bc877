package app

import (
	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/alexanderramin/fiberpay/internal/narrative"
)

type ReportRequest struct {
	Filter domain.FilterSpec
	// Keywords are counted across note fields for the mentions summary.
	Keywords []string
	// GroupBy, when set, adds a custom table reduced by Reduction.
	GroupBy   []string
	Reduction string
}

// ReportResponse is the dashboard for one filtered view.
type ReportResponse struct {
	Filter string
	Empty  bool

	Totals              aggregate.Totals
	TechnicianHours     domain.Table
	DailyHours          domain.Table
	ProjectHours        domain.Table
	FootageByActivity   domain.Table
	FootageByTechnician domain.Table
	Keywords            []aggregate.KeywordCount
	Custom              *domain.Table
}

type NarrateRequest struct {
	Filter     domain.FilterSpec
	FiberField string
}

type NarrateResponse struct {
	Filter   string
	Sections []narrative.Section
}

// ParseGrouping turns user-typed keys and reduction into an aggregation
// request. An empty reduction means hours.
func ParseGrouping(keys []string, reduction string) (aggregate.Request, error) {
	req := aggregate.Request{Reduction: domain.ReduceHours}
	for _, raw := range keys {
		k, err := domain.ParseGroupKey(raw)
		if err != nil {
			return aggregate.Request{}, newRequestError(ErrInvalidGrouping, "%v", err)
		}
		req.Keys = append(req.Keys, k)
	}
	if reduction != "" {
		r, err := domain.ParseReduction(reduction)
		if err != nil {
			return aggregate.Request{}, newRequestError(ErrInvalidReduction, "%v", err)
		}
		req.Reduction = r
	}
	if err := req.Validate(); err != nil {
		return aggregate.Request{}, newRequestError(ErrInvalidGrouping, "%v", err)
	}
	return req, nil
}
