package domain

// TableRow is one (key tuple → reduced value) entry.
type TableRow struct {
	Key   []string
	Value float64
}

// Table is the result of grouping and reducing a record collection.
type Table struct {
	Keys      []GroupKey
	Reduction Reduction
	Rows      []TableRow
}

// Empty reports whether the table has no rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Total sums the value column. For technician-keyed tables this counts a
// shared record once per participant.
func (t Table) Total() float64 {
	var sum float64
	for _, r := range t.Rows {
		sum += r.Value
	}
	return sum
}

// Lookup returns the value stored under key, if any.
func (t Table) Lookup(key ...string) (float64, bool) {
	for _, r := range t.Rows {
		if equalKeys(r.Key, key) {
			return r.Value, true
		}
	}
	return 0, false
}

// AsMap flattens a single-key table into label → value.
func (t Table) AsMap() map[string]float64 {
	m := make(map[string]float64, len(t.Rows))
	for _, r := range t.Rows {
		if len(r.Key) > 0 {
			m[r.Key[0]] = r.Value
		}
	}
	return m
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
