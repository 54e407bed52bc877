// Package aggregate groups filtered records and reduces them into ranking,
// trend and summary tables.
package aggregate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// ErrInvalidRequest is returned for a malformed grouping request. Data
// problems never produce an error.
var ErrInvalidRequest = errors.New("invalid aggregation request")

// Order selects how table rows are sorted.
type Order int

const (
	// OrderAuto uses OrderKeyAsc when the first key is the date, and
	// OrderValueDesc otherwise.
	OrderAuto Order = iota
	// OrderValueDesc ranks by value, ties broken by key ascending.
	OrderValueDesc
	// OrderKeyAsc sorts by key; dates are ISO formatted so this is chronological.
	OrderKeyAsc
	// OrderEncounter keeps the order in which key tuples were first seen.
	OrderEncounter
)

// Request describes one aggregation.
type Request struct {
	Keys      []domain.GroupKey
	Reduction domain.Reduction
	Order     Order
}

// Validate checks the key arity and that every key and the reduction are known.
func (r Request) Validate() error {
	if len(r.Keys) == 0 || len(r.Keys) > 2 {
		return fmt.Errorf("%w: expected 1 or 2 group keys, got %d", ErrInvalidRequest, len(r.Keys))
	}
	seen := make(map[domain.GroupKey]bool, len(r.Keys))
	for _, k := range r.Keys {
		if !domain.ValidGroupKeys[k] {
			return fmt.Errorf("%w: unknown group key %q", ErrInvalidRequest, k)
		}
		if seen[k] {
			return fmt.Errorf("%w: group key %q repeated", ErrInvalidRequest, k)
		}
		seen[k] = true
	}
	switch r.Reduction {
	case domain.ReduceHours, domain.ReduceQuantity, domain.ReduceCount:
	default:
		return fmt.Errorf("%w: unknown reduction %q", ErrInvalidRequest, r.Reduction)
	}
	return nil
}

// Aggregate groups records by req.Keys and reduces each group. Under the
// technician key each participant is credited the full record value. Null
// date and project keys are dropped, unclassified records never appear
// under the activity key or in quantity sums, and null hours count as 0.
// The input is never modified.
func Aggregate(records []domain.Record, req Request) (domain.Table, error) {
	if err := req.Validate(); err != nil {
		return domain.Table{}, err
	}

	table := domain.Table{
		Keys:      append([]domain.GroupKey{}, req.Keys...),
		Reduction: req.Reduction,
		Rows:      []domain.TableRow{},
	}

	index := make(map[string]int)
	for i := range records {
		rec := &records[i]
		if req.Reduction == domain.ReduceQuantity && !rec.Classified() {
			continue
		}
		value := reduce(rec, req.Reduction)
		for _, key := range keyTuples(rec, req.Keys) {
			id := strings.Join(key, "\x1f")
			pos, ok := index[id]
			if !ok {
				pos = len(table.Rows)
				index[id] = pos
				table.Rows = append(table.Rows, domain.TableRow{Key: key})
			}
			table.Rows[pos].Value += value
		}
	}

	sortRows(table.Rows, resolveOrder(req))
	return table, nil
}

func reduce(rec *domain.Record, r domain.Reduction) float64 {
	switch r {
	case domain.ReduceHours:
		return rec.Hours()
	case domain.ReduceQuantity:
		return rec.Quantity
	default:
		return 1
	}
}

// keyValues returns the labels a record contributes under k. An empty
// result drops the record from a grouping on k.
func keyValues(rec *domain.Record, k domain.GroupKey) []string {
	switch k {
	case domain.KeyTechnician:
		return rec.Participants
	case domain.KeyDate:
		if rec.Date == nil {
			return nil
		}
		return []string{rec.DateKey()}
	case domain.KeyProject:
		if rec.Project == "" {
			return nil
		}
		return []string{rec.Project}
	case domain.KeyActivity:
		if !rec.Classified() {
			return nil
		}
		return []string{rec.Activity.Label()}
	}
	return nil
}

// keyTuples is the cartesian product of the record's values for each key.
func keyTuples(rec *domain.Record, keys []domain.GroupKey) [][]string {
	tuples := [][]string{{}}
	for _, k := range keys {
		vals := keyValues(rec, k)
		if len(vals) == 0 {
			return nil
		}
		next := make([][]string, 0, len(tuples)*len(vals))
		for _, t := range tuples {
			for _, v := range vals {
				tuple := make([]string, len(t), len(t)+1)
				copy(tuple, t)
				next = append(next, append(tuple, v))
			}
		}
		tuples = next
	}
	return tuples
}

func resolveOrder(req Request) Order {
	if req.Order != OrderAuto {
		return req.Order
	}
	if req.Keys[0] == domain.KeyDate {
		return OrderKeyAsc
	}
	return OrderValueDesc
}

func sortRows(rows []domain.TableRow, order Order) {
	switch order {
	case OrderValueDesc:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Value != rows[j].Value {
				return rows[i].Value > rows[j].Value
			}
			return compareKeys(rows[i].Key, rows[j].Key) < 0
		})
	case OrderKeyAsc:
		sort.SliceStable(rows, func(i, j int) bool {
			return compareKeys(rows[i].Key, rows[j].Key) < 0
		})
	}
}

func compareKeys(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return len(a) - len(b)
}

// ByTechnician ranks technicians by the given reduction.
func ByTechnician(records []domain.Record, r domain.Reduction) domain.Table {
	return mustAggregate(records, Request{Keys: []domain.GroupKey{domain.KeyTechnician}, Reduction: r})
}

// ByProject ranks projects by the given reduction.
func ByProject(records []domain.Record, r domain.Reduction) domain.Table {
	return mustAggregate(records, Request{Keys: []domain.GroupKey{domain.KeyProject}, Reduction: r})
}

// DailyTrend sums the reduction per date in chronological order over the
// technician explosion: each participant contributes the full record value
// and records without participants are left out.
func DailyTrend(records []domain.Record, r domain.Reduction) domain.Table {
	perTech := mustAggregate(records, Request{
		Keys:      []domain.GroupKey{domain.KeyDate, domain.KeyTechnician},
		Reduction: r,
		Order:     OrderKeyAsc,
	})
	table := domain.Table{Keys: []domain.GroupKey{domain.KeyDate}, Reduction: r, Rows: []domain.TableRow{}}
	for _, row := range perTech.Rows {
		if n := len(table.Rows); n > 0 && table.Rows[n-1].Key[0] == row.Key[0] {
			table.Rows[n-1].Value += row.Value
			continue
		}
		table.Rows = append(table.Rows, domain.TableRow{Key: []string{row.Key[0]}, Value: row.Value})
	}
	return table
}

// ByActivity sums the reduction per classified activity, ranked.
func ByActivity(records []domain.Record, r domain.Reduction) domain.Table {
	return mustAggregate(records, Request{Keys: []domain.GroupKey{domain.KeyActivity}, Reduction: r})
}

// mustAggregate is for the fixed, known-valid requests above.
func mustAggregate(records []domain.Record, req Request) domain.Table {
	t, err := Aggregate(records, req)
	if err != nil {
		panic(err)
	}
	return t
}
