package aggregate

import (
	"testing"

	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/alexanderramin/fiberpay/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(k ...domain.GroupKey) []domain.GroupKey { return k }

func TestAggregate_EmptyInputIsEmptyTable(t *testing.T) {
	for _, r := range []domain.Reduction{domain.ReduceHours, domain.ReduceQuantity, domain.ReduceCount} {
		tbl, err := Aggregate(nil, Request{Keys: keys(domain.KeyTechnician), Reduction: r})
		require.NoError(t, err)
		assert.True(t, tbl.Empty())
		assert.NotNil(t, tbl.Rows)
	}
}

func TestAggregate_RejectsMalformedRequest(t *testing.T) {
	cases := []Request{
		{Reduction: domain.ReduceHours},
		{Keys: keys(domain.KeyDate, domain.KeyProject, domain.KeyTechnician), Reduction: domain.ReduceHours},
		{Keys: keys("truck"), Reduction: domain.ReduceHours},
		{Keys: keys(domain.KeyDate, domain.KeyDate), Reduction: domain.ReduceHours},
		{Keys: keys(domain.KeyDate), Reduction: "average"},
	}
	for _, req := range cases {
		_, err := Aggregate(testutil.SiteARecords(), req)
		require.ErrorIs(t, err, ErrInvalidRequest, "req=%+v", req)
	}
}

func TestAggregate_EndToEndTechnicianQuantity(t *testing.T) {
	tbl, err := Aggregate(testutil.SiteARecords(), Request{
		Keys:      keys(domain.KeyTechnician),
		Reduction: domain.ReduceQuantity,
	})
	require.NoError(t, err)

	want := []domain.TableRow{
		{Key: []string{"Amy"}, Value: 800},
		{Key: []string{"Bob"}, Value: 300},
	}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Fatalf("technician footage (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1100.0, tbl.Total(), "shared records count once per participant")
}

func TestAggregate_TechnicianHoursFullCredit(t *testing.T) {
	tbl := ByTechnician(testutil.SiteARecords(), domain.ReduceHours)
	assert.Equal(t, map[string]float64{"Amy": 14, "Bob": 6}, tbl.AsMap())
}

func TestAggregate_RecordsWithoutParticipantsSkipTechnicianKey(t *testing.T) {
	recs := append(testutil.SiteARecords(), testutil.NewTestRecord(testutil.WithHours(4)))
	tbl := ByTechnician(recs, domain.ReduceHours)
	assert.Len(t, tbl.Rows, 2)
}

func TestAggregate_ActivityExcludesUnclassified(t *testing.T) {
	recs := append(testutil.SiteARecords(),
		testutil.NewTestRecord(testutil.WithAction("Splicing"), testutil.WithHours(3)),
		testutil.NewTestRecord(testutil.WithActivity(domain.ActivityLashedFiber), testutil.WithQuantity(250)),
	)

	tbl := ByActivity(recs, domain.ReduceQuantity)
	want := []domain.TableRow{
		{Key: []string{"Lashed Fiber"}, Value: 750},
		{Key: []string{"Pulled Fiber"}, Value: 300},
	}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Fatalf("activity footage (-want +got):\n%s", diff)
	}

	counts := ByActivity(recs, domain.ReduceCount)
	_, ok := counts.Lookup(domain.ActivityUnclassified.Label())
	assert.False(t, ok)
}

func TestAggregate_QuantityIgnoresUnclassifiedEvenUnderOtherKeys(t *testing.T) {
	stray := testutil.NewTestRecord(testutil.WithProject("Site Z"), testutil.WithParticipants("Zed"))
	stray.Quantity = 999
	tbl := ByProject([]domain.Record{stray}, domain.ReduceQuantity)
	assert.True(t, tbl.Empty())
}

func TestAggregate_NullDateAndProjectDropped(t *testing.T) {
	recs := append(testutil.SiteARecords(), testutil.NewTestRecord(testutil.WithHours(5)))

	assert.Equal(t, map[string]float64{"Site A": 14}, ByProject(recs, domain.ReduceHours).AsMap())
	assert.Equal(t, map[string]float64{"2024-01-05": 20}, DailyTrend(recs, domain.ReduceHours).AsMap())
}

func TestDailyTrend_CreditsEachTechnicianAndSkipsUnstaffedRecords(t *testing.T) {
	crew := testutil.NewTestRecord(testutil.WithDate("2024-01-05"), testutil.WithParticipants("Amy", "Bob"), testutil.WithHours(8))
	unstaffed := testutil.NewTestRecord(testutil.WithDate("2024-01-05"), testutil.WithHours(8))

	assert.Equal(t, map[string]float64{"2024-01-05": 16},
		DailyTrend([]domain.Record{crew, unstaffed}, domain.ReduceHours).AsMap())

	crew.Participants = []string{"Amy"}
	assert.Equal(t, map[string]float64{"2024-01-05": 8},
		DailyTrend([]domain.Record{crew, unstaffed}, domain.ReduceHours).AsMap())

	tbl := DailyTrend([]domain.Record{unstaffed}, domain.ReduceHours)
	assert.True(t, tbl.Empty())
	assert.Equal(t, []domain.GroupKey{domain.KeyDate}, tbl.Keys)
}

func TestAggregate_NullHoursCountAsZero(t *testing.T) {
	recs := []domain.Record{
		testutil.NewTestRecord(testutil.WithProject("P"), testutil.WithHours(2)),
		testutil.NewTestRecord(testutil.WithProject("P")),
	}
	assert.Equal(t, 2.0, ByProject(recs, domain.ReduceHours).AsMap()["P"])
	assert.Equal(t, 2.0, ByProject(recs, domain.ReduceCount).AsMap()["P"])
}

func TestAggregate_DateTrendIsChronological(t *testing.T) {
	recs := []domain.Record{
		testutil.NewTestRecord(testutil.WithDate("2024-02-01"), testutil.WithParticipants("Amy"), testutil.WithHours(1)),
		testutil.NewTestRecord(testutil.WithDate("2023-12-31"), testutil.WithParticipants("Zed", "Amy"), testutil.WithHours(9)),
		testutil.NewTestRecord(testutil.WithDate("2024-01-15"), testutil.WithParticipants("Bob"), testutil.WithHours(5)),
	}
	tbl := DailyTrend(recs, domain.ReduceHours)
	var got []string
	for _, r := range tbl.Rows {
		got = append(got, r.Key[0])
	}
	assert.Equal(t, []string{"2023-12-31", "2024-01-15", "2024-02-01"}, got)
}

func TestAggregate_RankingTiesBrokenByKey(t *testing.T) {
	recs := []domain.Record{
		testutil.NewTestRecord(testutil.WithProject("Zulu"), testutil.WithHours(3)),
		testutil.NewTestRecord(testutil.WithProject("Alpha"), testutil.WithHours(3)),
		testutil.NewTestRecord(testutil.WithProject("Mike"), testutil.WithHours(7)),
	}
	tbl := ByProject(recs, domain.ReduceHours)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "Mike", tbl.Rows[0].Key[0])
	assert.Equal(t, "Alpha", tbl.Rows[1].Key[0])
	assert.Equal(t, "Zulu", tbl.Rows[2].Key[0])
}

func TestAggregate_EncounterOrder(t *testing.T) {
	recs := []domain.Record{
		testutil.NewTestRecord(testutil.WithProject("B"), testutil.WithHours(1)),
		testutil.NewTestRecord(testutil.WithProject("A"), testutil.WithHours(5)),
		testutil.NewTestRecord(testutil.WithProject("B"), testutil.WithHours(1)),
	}
	tbl, err := Aggregate(recs, Request{Keys: keys(domain.KeyProject), Reduction: domain.ReduceHours, Order: OrderEncounter})
	require.NoError(t, err)
	assert.Equal(t, []domain.TableRow{
		{Key: []string{"B"}, Value: 2},
		{Key: []string{"A"}, Value: 5},
	}, tbl.Rows)
}

func TestAggregate_CompositeKeys(t *testing.T) {
	tbl, err := Aggregate(testutil.SiteARecords(), Request{
		Keys:      keys(domain.KeyDate, domain.KeyTechnician),
		Reduction: domain.ReduceHours,
	})
	require.NoError(t, err)

	assert.Equal(t, []domain.GroupKey{domain.KeyDate, domain.KeyTechnician}, tbl.Keys)
	want := []domain.TableRow{
		{Key: []string{"2024-01-05", "Amy"}, Value: 14},
		{Key: []string{"2024-01-05", "Bob"}, Value: 6},
	}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Fatalf("date×tech hours (-want +got):\n%s", diff)
	}
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	recs := testutil.SiteARecords()
	snapshot := append([]domain.Record{}, recs...)
	_, err := Aggregate(recs, Request{Keys: keys(domain.KeyTechnician, domain.KeyActivity), Reduction: domain.ReduceQuantity})
	require.NoError(t, err)
	assert.Equal(t, snapshot, recs)
}
