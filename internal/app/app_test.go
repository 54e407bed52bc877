package app

import (
	"testing"

	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterInput_Spec(t *testing.T) {
	spec, err := FilterInput{
		Date:        "2024-01-05",
		Project:     "All",
		Truck:       " T-12 ",
		Technicians: []string{"Amy", "", "All"},
		Match:       "ALL",
		Keywords:    []string{"fat"},
	}.Spec()
	require.NoError(t, err)

	require.NotNil(t, spec.Date)
	assert.Equal(t, "2024-01-05", spec.Date.Format(domain.DateLayout))
	assert.Equal(t, "", spec.Project)
	assert.Equal(t, "T-12", spec.Truck)
	assert.Equal(t, []string{"Amy"}, spec.Technicians)
	assert.Equal(t, domain.MatchAll, spec.TechnicianMatch)
	assert.Equal(t, []string{"fat"}, spec.Keywords)
}

func TestFilterInput_SpecEmptyIsUnconstrained(t *testing.T) {
	spec, err := FilterInput{Date: "All"}.Spec()
	require.NoError(t, err)
	assert.True(t, spec.Empty())
	assert.Equal(t, domain.MatchAny, spec.TechnicianMatch)
}

func TestFilterInput_SpecErrors(t *testing.T) {
	_, err := FilterInput{Date: "01/05/2024"}.Spec()
	assert.True(t, IsRequestError(err, ErrInvalidDate))

	_, err = FilterInput{Match: "some"}.Spec()
	assert.True(t, IsRequestError(err, ErrInvalidMatchMode))
	assert.Contains(t, err.Error(), "INVALID_MATCH_MODE")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "all records", Describe(domain.FilterSpec{Project: "All"}))

	spec, err := FilterInput{Date: "2024-01-05", Project: "Site A", Technicians: []string{"Amy", "Bob"}}.Spec()
	require.NoError(t, err)
	assert.Equal(t, "date=2024-01-05 project=Site A tech(any)=Amy,Bob", Describe(spec))
}

func TestParseGrouping(t *testing.T) {
	req, err := ParseGrouping([]string{"date", "tech"}, "footage")
	require.NoError(t, err)
	assert.Equal(t, []domain.GroupKey{domain.KeyDate, domain.KeyTechnician}, req.Keys)
	assert.Equal(t, domain.ReduceQuantity, req.Reduction)

	req, err = ParseGrouping([]string{"project"}, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ReduceHours, req.Reduction)
}

func TestParseGrouping_Errors(t *testing.T) {
	_, err := ParseGrouping([]string{"weather"}, "")
	assert.True(t, IsRequestError(err, ErrInvalidGrouping))

	_, err = ParseGrouping([]string{"date", "project", "technician"}, "")
	assert.True(t, IsRequestError(err, ErrInvalidGrouping))

	_, err = ParseGrouping(nil, "")
	assert.True(t, IsRequestError(err, ErrInvalidGrouping))

	_, err = ParseGrouping([]string{"date"}, "weight")
	assert.True(t, IsRequestError(err, ErrInvalidReduction))
}

func TestParseExportFormat(t *testing.T) {
	for in, want := range map[string]ExportFormat{"": ExportCSV, "CSV": ExportCSV, "sqlite": ExportSQLite, "db": ExportSQLite} {
		got, err := ParseExportFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseExportFormat("parquet")
	assert.True(t, IsRequestError(err, ErrInvalidFormat))
}
