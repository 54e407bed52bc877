package app

import (
	"time"

	"github.com/alexanderramin/fiberpay/internal/aggregate"
	"github.com/alexanderramin/fiberpay/internal/domain"
)

// Dataset is an annotated workbook held in memory for one run.
type Dataset struct {
	Source   string
	Sheet    string
	Headers  []string
	Records  []domain.Record
	Options  aggregate.FilterOptions
	LoadedAt time.Time

	// KeywordFields is the rules-file default for keyword search.
	KeywordFields []string
}
