package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/alexanderramin/fiberpay/internal/cli/formatter"
	"github.com/alexanderramin/fiberpay/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type browsePane int

const (
	paneList browsePane = iota
	paneDetail
	paneReport
)

type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Back   key.Binding
	Search key.Binding
	Report key.Binding
	Quit   key.Binding
}

func defaultBrowseKeys() browseKeyMap {
	return browseKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Report: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browseModel is a scrollable record list with a detail pane and the
// rendered report for the same filtered view.
type browseModel struct {
	title   string
	records []domain.Record
	report  string
	keys    browseKeyMap

	cursor    int
	offset    int
	pane      browsePane
	searching bool
	search    string

	width  int
	height int
	vp     viewport.Model
}

func newBrowseModel(title string, records []domain.Record, report string) browseModel {
	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true
	return browseModel{
		title:   title,
		records: records,
		report:  report,
		keys:    defaultBrowseKeys(),
		vp:      vp,
		width:   80,
		height:  24,
	}
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = m.bodyHeight()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.searching {
			return m.updateSearch(msg), nil
		}
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.pane != paneList {
			return m.updatePane(msg)
		}
		return m.updateList(msg), nil

	case tea.MouseMsg:
		if m.pane != paneList {
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m browseModel) updateList(msg tea.KeyMsg) browseModel {
	visible := m.visible()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.cursor < len(visible) {
			m.openPane(paneDetail, recordDetail(&visible[m.cursor]))
		}
	case key.Matches(msg, m.keys.Report):
		m.openPane(paneReport, m.report)
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search = ""
		m.cursor = 0
	}
	m.scrollToCursor()
	return m
}

func (m browseModel) updatePane(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back) {
		m.pane = paneList
		return m, nil
	}
	if m.pane == paneDetail && key.Matches(msg, m.keys.Report) {
		m.openPane(paneReport, m.report)
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m browseModel) updateSearch(msg tea.KeyMsg) browseModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search = ""
	case tea.KeyEnter:
		m.searching = false
	case tea.KeyBackspace:
		if len(m.search) > 0 {
			r := []rune(m.search)
			m.search = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.search += " "
	case tea.KeyRunes:
		m.search += string(msg.Runes)
	}
	m.cursor = 0
	m.offset = 0
	return m
}

func (m *browseModel) openPane(p browsePane, content string) {
	m.pane = p
	m.vp.Width = m.width
	m.vp.Height = m.bodyHeight()
	m.vp.SetContent(content)
	m.vp.GotoTop()
}

// visible returns the records whose text matches the search.
func (m browseModel) visible() []domain.Record {
	q := strings.ToLower(strings.TrimSpace(m.search))
	if q == "" {
		return m.records
	}
	var out []domain.Record
	for _, rec := range m.records {
		if strings.Contains(strings.ToLower(searchText(&rec)), q) {
			out = append(out, rec)
		}
	}
	return out
}

func searchText(rec *domain.Record) string {
	parts := []string{rec.DateKey(), rec.Project, rec.Truck, rec.ActionText, rec.Activity.Label()}
	parts = append(parts, rec.Participants...)
	for _, body := range rec.NoteFields {
		parts = append(parts, body)
	}
	return strings.Join(parts, " ")
}

// bodyHeight leaves room for the title and help lines.
func (m browseModel) bodyHeight() int {
	return max(m.height-4, 1)
}

func (m *browseModel) scrollToCursor() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m browseModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(m.title))
	b.WriteString("\n\n")

	switch m.pane {
	case paneDetail, paneReport:
		b.WriteString(m.vp.View())
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m browseModel) listView() string {
	visible := m.visible()
	var b strings.Builder
	if m.searching || m.search != "" {
		cursor := ""
		if m.searching {
			cursor = "█"
		}
		b.WriteString(formatter.StyleYellow.Render("/") + " " + m.search + cursor + "\n")
	}
	if len(visible) == 0 {
		b.WriteString(formatter.Dim(formatter.NoDataMessage) + "\n")
		return b.String()
	}

	end := min(m.offset+m.bodyHeight(), len(visible))
	for i := m.offset; i < end; i++ {
		rec := &visible[i]
		marker := "  "
		if i == m.cursor {
			marker = formatter.StyleGreen.Render("▸ ")
		}
		line := fmt.Sprintf("%-10s  %-12s  %-6s  %s  %s",
			rec.DateKey(),
			formatter.Truncate(rec.Project, 12),
			formatter.Truncate(rec.Truck, 6),
			formatter.ActivityBadge(rec.Activity),
			formatter.Dim(formatter.Truncate(strings.Join(rec.Participants, ", "), 30)),
		)
		b.WriteString(marker + line + "\n")
	}
	b.WriteString(formatter.Dim(fmt.Sprintf("%d of %d records", len(visible), len(m.records))) + "\n")
	return b.String()
}

func (m browseModel) helpLine() string {
	var bindings []key.Binding
	switch {
	case m.searching:
		return formatter.Dim("enter keep · esc clear")
	case m.pane == paneList:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Search, m.keys.Report, m.keys.Quit}
	default:
		bindings = []key.Binding{m.keys.Back, m.keys.Report, m.keys.Quit}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return formatter.Dim(strings.Join(parts, " · "))
}

// recordDetail renders every field of one record.
func recordDetail(rec *domain.Record) string {
	hours := "--"
	if rec.HoursWorked != nil {
		hours = formatter.FormatHours(*rec.HoursWorked)
	}
	footage := "--"
	if rec.QuantityFound {
		footage = formatter.FormatFeet(rec.Quantity) + formatter.Dim(" from "+rec.QuantityField)
	}

	rows := [][]string{
		{"Date", formatter.HumanDate(rec.Date)},
		{"Project", formatter.Placeholder(rec.Project)},
		{"Truck", formatter.Placeholder(rec.Truck)},
		{"Reporter", formatter.Placeholder(rec.Reporter)},
		{"Action", formatter.Placeholder(rec.ActionText)},
		{"Activity", formatter.ActivityBadge(rec.Activity)},
		{"Technicians", formatter.Placeholder(strings.Join(rec.Participants, ", "))},
		{"Hours", hours},
		{"Footage", footage},
	}
	for _, field := range sortedNoteFields(rec) {
		rows = append(rows, []string{field, formatter.Placeholder(rec.NoteFields[field])})
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("%s  %s\n", formatter.Bold(fmt.Sprintf("%-12s", r[0])), r[1]))
	}
	b.WriteString(formatter.Dim(fmt.Sprintf("\n%s row %d", rec.Source, rec.RowIndex)))
	return b.String()
}

func sortedNoteFields(rec *domain.Record) []string {
	return slices.Sorted(maps.Keys(rec.NoteFields))
}
