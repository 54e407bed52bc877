package cli

import (
	"testing"

	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/alexanderramin/fiberpay/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func browseRecords() []domain.Record {
	recs := testutil.SiteARecords()
	recs = append(recs, testutil.NewTestRecord(
		testutil.WithDate("2024-01-06"), testutil.WithProject("Site B"), testutil.WithTruck("T-7"),
		testutil.WithAction("Strand work"), testutil.WithNote("Notes", "Poles 3 to 9, 1,250"),
		testutil.WithParticipants("Carol"), testutil.WithHours(4),
		testutil.WithActivity(domain.ActivityStrand), testutil.WithQuantity(1250),
	))
	return recs
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m browseModel, keys ...string) (browseModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var model tea.Model
		model, cmd = m.Update(keyMsg(k))
		var ok bool
		m, ok = model.(browseModel)
		require.True(t, ok)
	}
	return m, cmd
}

func TestBrowseModel_CursorStaysInBounds(t *testing.T) {
	m := newBrowseModel("field.csv", browseRecords(), "report")

	m, _ = press(t, m, "up")
	assert.Equal(t, 0, m.cursor)

	m, _ = press(t, m, "down", "j", "down", "down")
	assert.Equal(t, 2, m.cursor)

	m, _ = press(t, m, "k")
	assert.Equal(t, 1, m.cursor)
}

func TestBrowseModel_ListView(t *testing.T) {
	m := newBrowseModel("field.csv · all records", browseRecords(), "report")
	view := stripANSI(m.View())

	assert.Contains(t, view, "field.csv · all records")
	assert.Contains(t, view, "2024-01-05")
	assert.Contains(t, view, "● Lashed Fiber")
	assert.Contains(t, view, "Bob, Amy")
	assert.Contains(t, view, "3 of 3 records")
	assert.Contains(t, view, "enter details")
}

func TestBrowseModel_OpenDetailAndBack(t *testing.T) {
	m := newBrowseModel("t", browseRecords(), "report")
	m, _ = press(t, m, "down", "enter")
	require.Equal(t, paneDetail, m.pane)

	view := stripANSI(m.View())
	assert.Contains(t, view, "Pulled Fiber")
	assert.Contains(t, view, "Bob, Amy")
	assert.Contains(t, view, "300 ft")
	assert.Contains(t, view, "Footage: 300")

	m, _ = press(t, m, "esc")
	assert.Equal(t, paneList, m.pane)
	assert.Equal(t, 1, m.cursor, "cursor survives the detail pane")
}

func TestBrowseModel_ReportPane(t *testing.T) {
	m := newBrowseModel("t", browseRecords(), "TOTAL HOURS 18")
	m, _ = press(t, m, "r")
	require.Equal(t, paneReport, m.pane)
	assert.Contains(t, stripANSI(m.View()), "TOTAL HOURS 18")

	m, _ = press(t, m, "esc")
	assert.Equal(t, paneList, m.pane)
}

func TestBrowseModel_Search(t *testing.T) {
	m := newBrowseModel("t", browseRecords(), "")
	m, _ = press(t, m, "/", "p", "o", "l", "e", "s")
	assert.True(t, m.searching)
	require.Len(t, m.visible(), 1)
	assert.Equal(t, "Site B", m.visible()[0].Project)

	m, _ = press(t, m, "enter")
	assert.False(t, m.searching)
	assert.Contains(t, stripANSI(m.View()), "1 of 3 records")

	m, _ = press(t, m, "/", "zzz")
	assert.Empty(t, m.visible())
	assert.Contains(t, stripANSI(m.View()), "No data for current filters.")

	m, _ = press(t, m, "backspace", "esc")
	assert.False(t, m.searching)
	assert.Len(t, m.visible(), 3)
}

func TestBrowseModel_SearchMatchesTechnicians(t *testing.T) {
	m := newBrowseModel("t", browseRecords(), "")
	m, _ = press(t, m, "/", "bob", "enter")
	assert.Len(t, m.visible(), 1)
}

func TestBrowseModel_Quit(t *testing.T) {
	m := newBrowseModel("t", browseRecords(), "")
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBrowseModel_WindowResizeScrolls(t *testing.T) {
	m := newBrowseModel("t", browseRecords(), "")
	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 6})
	m = model.(browseModel)
	assert.Equal(t, 2, m.bodyHeight())

	m, _ = press(t, m, "down", "down")
	assert.Equal(t, 2, m.cursor)
	assert.Equal(t, 1, m.offset)
	assert.NotContains(t, stripANSI(m.listView()), "Lashed Fiber")
}

func TestRecordDetail_NullFields(t *testing.T) {
	rec := testutil.NewTestRecord(testutil.WithAction("Safety meeting"))
	out := stripANSI(recordDetail(&rec))
	assert.Contains(t, out, "Date          --")
	assert.Contains(t, out, "Footage       --")
	assert.Contains(t, out, "Unclassified")
}
