package aggregate

import (
	"time"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// Group is one (date, project) cluster of records.
type Group struct {
	Date    *time.Time
	Project string
	Records []domain.Record
}

// DateKey returns the group date as YYYY-MM-DD, or "" when null.
func (g Group) DateKey() string {
	if g.Date == nil {
		return ""
	}
	return g.Date.Format(domain.DateLayout)
}

// GroupByDateProject clusters records by (date, project) in the order the
// pairs are first encountered. It is a stable grouping, not a sort. Null
// dates and projects form their own groups.
func GroupByDateProject(records []domain.Record) []Group {
	groups := []Group{}
	index := make(map[[2]string]int)
	for i := range records {
		rec := records[i]
		id := [2]string{rec.DateKey(), rec.Project}
		pos, ok := index[id]
		if !ok {
			pos = len(groups)
			index[id] = pos
			g := Group{Project: rec.Project}
			if rec.Date != nil {
				d := *rec.Date
				g.Date = &d
			}
			groups = append(groups, g)
		}
		groups[pos].Records = append(groups[pos].Records, rec)
	}
	return groups
}
