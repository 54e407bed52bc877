package aggregate

import (
	"sort"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/alexanderramin/fiberpay/internal/filter"
)

// Totals is the headline metric block for a filtered view.
type Totals struct {
	Hours       float64
	Quantity    float64
	Records     int
	Technicians int
}

// Summarize computes headline totals. Quantity counts each record once,
// unlike technician-keyed tables.
func Summarize(records []domain.Record) Totals {
	t := Totals{Records: len(records)}
	techs := make(map[string]struct{})
	for i := range records {
		rec := &records[i]
		t.Hours += rec.Hours()
		if rec.Classified() {
			t.Quantity += rec.Quantity
		}
		for _, p := range rec.Participants {
			techs[p] = struct{}{}
		}
	}
	t.Technicians = len(techs)
	return t
}

// KeywordCount is how many note cells mention a keyword.
type KeywordCount struct {
	Keyword string
	Count   int
}

// KeywordMentions counts, per keyword, the (record, note field) cells that
// contain it case-insensitively. fields restricts the searched note fields;
// empty means all of them. Keywords keep their input order.
func KeywordMentions(records []domain.Record, keywords, fields []string) []KeywordCount {
	out := make([]KeywordCount, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		n := 0
		for i := range records {
			for _, text := range noteTexts(&records[i], fields) {
				if filter.ContainsAny(text, []string{kw}) {
					n++
				}
			}
		}
		out = append(out, KeywordCount{Keyword: kw, Count: n})
	}
	return out
}

func noteTexts(rec *domain.Record, fields []string) []string {
	if len(fields) == 0 {
		texts := make([]string, 0, len(rec.NoteFields))
		for _, v := range rec.NoteFields {
			texts = append(texts, v)
		}
		return texts
	}
	var texts []string
	for _, f := range fields {
		if v := rec.Note(f); v != "" {
			texts = append(texts, v)
		}
	}
	return texts
}

// FilterOptions are the distinct values a filter form offers.
type FilterOptions struct {
	Dates       []string
	Projects    []string
	Trucks      []string
	Technicians []string
}

// Options returns the sorted distinct non-null dates, projects, trucks and
// technicians across records.
func Options(records []domain.Record) FilterOptions {
	dates := map[string]struct{}{}
	projects := map[string]struct{}{}
	trucks := map[string]struct{}{}
	techs := map[string]struct{}{}
	for i := range records {
		rec := &records[i]
		addNonBlank(dates, rec.DateKey())
		addNonBlank(projects, rec.Project)
		addNonBlank(trucks, rec.Truck)
		for _, p := range rec.Participants {
			addNonBlank(techs, p)
		}
	}
	return FilterOptions{
		Dates:       sortedKeys(dates),
		Projects:    sortedKeys(projects),
		Trucks:      sortedKeys(trucks),
		Technicians: sortedKeys(techs),
	}
}

func addNonBlank(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
