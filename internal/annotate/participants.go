package annotate

import (
	"sort"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/domain"
)

// DefaultEmployeePrefix selects participant columns by header when no
// explicit employee column list is configured: "Employee", "Employee.1",
// "Employee6" and "Employee 2" all qualify.
const DefaultEmployeePrefix = "Employee"

// ResolveParticipants collects the non-blank participant names from the
// given columns, in column order. A name repeated in two columns is kept
// twice; the result is never nil.
func ResolveParticipants(row domain.Row, columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		if v := row.Get(col); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// DiscoverColumns returns the headers starting with prefix, in header order.
func DiscoverColumns(headers []string, prefix string) []string {
	if prefix == "" {
		return nil
	}
	var cols []string
	for _, h := range headers {
		if strings.HasPrefix(strings.TrimSpace(h), prefix) {
			cols = append(cols, strings.TrimSpace(h))
		}
	}
	return cols
}

// discoverFromRow is the header-less fallback: prefix columns sorted by name
// so that "Employee" < "Employee.1" < "Employee1".
func discoverFromRow(row domain.Row, prefix string) []string {
	var cols []string
	for k := range row {
		if strings.HasPrefix(k, prefix) {
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	return cols
}
