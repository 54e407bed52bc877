package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/fiberpay/internal/app"
	"github.com/alexanderramin/fiberpay/internal/config"
	"github.com/alexanderramin/fiberpay/internal/rules"
	"github.com/alexanderramin/fiberpay/internal/service"
	"github.com/alexanderramin/fiberpay/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string { return ansiRE.ReplaceAllString(s, "") }

// testApp wires a full App with built-in rules and default config.
func testApp(t *testing.T) *App {
	t.Helper()
	return &App{
		Config:   config.Default(),
		Logger:   zap.NewNop(),
		Datasets: service.NewDatasetService(rules.Default(), 2),
		Reports:  service.NewReportService(),
		Exports:  service.NewExportService(),
		RunForm: func(*huh.Form) error {
			t.Fatal("unexpected form")
			return nil
		},
		RunProgram: func(tea.Model) error {
			t.Fatal("unexpected program")
			return nil
		},
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdContext(t, context.Background(), app, args...)
}

func executeCmdContext(t *testing.T, ctx context.Context, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return stripANSI(buf.String()), err
}

// --- report ---

func TestReportCmd_AllRecords(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)

	out, err := executeCmd(t, a, "report", path)
	require.NoError(t, err)

	for _, want := range []string{
		"Filter: all records",
		"Total Hours Worked: 19 h",
		"Footage: 2,050 ft",
		"HOURS BY TECHNICIAN",
		"DAILY HOURS TREND",
		"HOURS BY PROJECT",
		"FOOTAGE BY ACTIVITY",
		"FOOTAGE BY TECHNICIAN",
		"KEYWORD MENTIONS IN NOTES",
		"Amy",
		"1,250 ft",
	} {
		assert.Contains(t, out, want)
	}
}

func TestReportCmd_Filtered(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)

	out, err := executeCmd(t, a, "report", path, "--project", "Site B", "--tech", "Carol")
	require.NoError(t, err)
	assert.Contains(t, out, "project=Site B")
	assert.Contains(t, out, "tech(any)=Carol")
	assert.Contains(t, out, "Total Hours Worked: 5 h")
	assert.NotContains(t, out, "Amy")
}

func TestReportCmd_NoData(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)

	out, err := executeCmd(t, a, "report", path, "--date", "2023-12-31")
	require.NoError(t, err)
	assert.Contains(t, out, "No data for current filters.")
	assert.NotContains(t, out, "HOURS BY TECHNICIAN")
}

func TestReportCmd_CustomTable(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)

	out, err := executeCmd(t, a, "report", path, "--by", "date,technician", "--metric", "count")
	require.NoError(t, err)
	assert.Contains(t, out, "ENTRIES BY DATE AND TECH")
	assert.Contains(t, out, "2024-01-06")
}

func TestReportCmd_MentionOverridesConfig(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)

	out, err := executeCmd(t, a, "report", path, "--mention", "Poles")
	require.NoError(t, err)
	assert.Contains(t, out, "Poles")
	assert.NotContains(t, out, "Splice enclosure")
}

func TestReportCmd_InvalidInput(t *testing.T) {
	path := testutil.WriteFieldSheet(t)

	tests := []struct {
		name string
		args []string
		code app.ErrorCode
	}{
		{"bad date", []string{"--date", "Jan 5"}, app.ErrInvalidDate},
		{"bad match", []string{"--match", "most"}, app.ErrInvalidMatchMode},
		{"bad key", []string{"--by", "truck"}, app.ErrInvalidGrouping},
		{"bad metric", []string{"--by", "date", "--metric", "miles"}, app.ErrInvalidReduction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeCmd(t, testApp(t), append([]string{"report", path}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, app.IsRequestError(err, tt.code), "got %v", err)
		})
	}
}

func TestReportCmd_MissingFile(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "report", filepath.Join(t.TempDir(), "absent.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReportCmd_RequiresFileArg(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "report")
	require.Error(t, err)
}

func TestReportCmd_InteractiveUsesFormSelection(t *testing.T) {
	a := testApp(t)
	a.Interactive = true
	path := testutil.WriteFieldSheet(t)

	var formSeen bool
	a.RunForm = func(f *huh.Form) error {
		formSeen = true
		return nil
	}

	out, err := executeCmd(t, a, "report", path, "-i", "--project", "Site A")
	require.NoError(t, err)
	assert.True(t, formSeen)
	assert.Contains(t, out, "project=Site A", "flags seed the form")
	assert.Contains(t, out, "Total Hours Worked: 14 h")
}

func TestReportCmd_InteractiveNeedsTerminal(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "report", testutil.WriteFieldSheet(t), "--interactive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal")
}

// --- narrate ---

func TestNarrateCmd(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)

	out, err := executeCmd(t, a, "narrate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Fri Jan 5, 2024 · Site A")
	assert.Contains(t, out, "Amy used T-12 to do Lashed Fiber with 48ct for 500 feet.")
	assert.Contains(t, out, "Carol used T-7 to do Strand work with Unknown Fiber for 1250 feet.")
	assert.NotContains(t, out, "Safety meeting")
}

func TestNarrateCmd_FiberFieldFlag(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)

	out, err := executeCmd(t, a, "narrate", path, "--project", "Site A", "--fiber-field", "Missing")
	require.NoError(t, err)
	assert.Contains(t, out, "Amy used T-12 to do Lashed Fiber with Unknown Fiber for 500 feet.")
}

func TestNarrateCmd_NoData(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "narrate", testutil.WriteFieldSheet(t), "--truck", "T-99")
	require.NoError(t, err)
	assert.Equal(t, "No data for current filters.\n", out)
}

// --- export ---

func TestExportCmd_CSV(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)
	out := filepath.Join(t.TempDir(), "site-a.csv")

	stdout, err := executeCmd(t, a, "export", path, "--out", out, "--project", "Site A")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 2 records to "+out)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
}

func TestExportCmd_SQLite(t *testing.T) {
	a := testApp(t)
	out := filepath.Join(t.TempDir(), "field.db")

	stdout, err := executeCmd(t, a, "export", testutil.WriteFieldSheet(t), "-o", out, "--format", "sqlite")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 4 records")
	assert.Contains(t, stdout, "(sqlite)")
	assert.FileExists(t, out)
}

func TestExportCmd_Errors(t *testing.T) {
	path := testutil.WriteFieldSheet(t)

	_, err := executeCmd(t, testApp(t), "export", path)
	require.Error(t, err, "--out is required")

	_, err = executeCmd(t, testApp(t), "export", path, "--out", "x.json", "--format", "json")
	require.Error(t, err)
	assert.True(t, app.IsRequestError(err, app.ErrInvalidFormat))
}

// --- options ---

func TestOptionsCmd(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "options", testutil.WriteFieldSheet(t))
	require.NoError(t, err)
	for _, want := range []string{"DATES", "2024-01-05", "PROJECTS", "Site B", "TRUCKS", "T-12", "TECHNICIANS", "Carol"} {
		assert.Contains(t, out, want)
	}
}

// --- browse ---

func TestBrowseCmd_RunsProgram(t *testing.T) {
	a := testApp(t)
	a.Interactive = true
	var model tea.Model
	a.RunProgram = func(m tea.Model) error {
		model = m
		return nil
	}

	_, err := executeCmd(t, a, "browse", testutil.WriteFieldSheet(t), "--tech", "Amy")
	require.NoError(t, err)

	bm, ok := model.(browseModel)
	require.True(t, ok)
	assert.Len(t, bm.records, 2)
	assert.Contains(t, bm.title, "field.csv")
	assert.Contains(t, stripANSI(bm.report), "Total Hours Worked: 14 h")
}

func TestBrowseCmd_NeedsTerminal(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "browse", testutil.WriteFieldSheet(t))
	require.Error(t, err)
}

// --- watch ---

func TestWatchCmd_RendersUntilCancelled(t *testing.T) {
	a := testApp(t)
	path := testutil.WriteFieldSheet(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := executeCmdContext(t, ctx, a, "watch", path, "--project", "Site B")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Hours Worked: 5 h")
	assert.Contains(t, out, "watching field.csv")
}

func TestWatchCmd_InitialLoadError(t *testing.T) {
	_, err := executeCmd(t, testApp(t), "watch", filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
}

// --- rules ---

func TestRulesDump(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "rules", "dump")
	require.NoError(t, err)
	assert.Contains(t, out, "classifier:")
	assert.Contains(t, out, "extraction:")

	f, err := rules.Parse(strings.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, rules.Validate(f))
}

func TestRulesCheck(t *testing.T) {
	good := testutil.WriteSheet(t, "rules.yaml", "classifier:\n  - pattern: splice\n    activity: strand\n")
	out, err := executeCmd(t, testApp(t), "rules", "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := testutil.WriteSheet(t, "bad.yaml", "classifier:\n  - pattern: \"\"\n    activity: welding\n")
	out, err = executeCmd(t, testApp(t), "rules", "check", bad)
	require.Error(t, err)
	assert.Contains(t, out, "Rules file has problems:")
}

func TestRulesCheck_BuiltIn(t *testing.T) {
	out, err := executeCmd(t, testApp(t), "rules", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "built-in rules")
}

func TestRulesCheck_BrokenConfiguredRulesStillChecked(t *testing.T) {
	bad := testutil.WriteSheet(t, "bad.yaml", "classifier:\n  - pattern: x\n    activity: welding\n")
	a := &App{Config: config.Default()}
	a.Config.RulesPath = bad

	out, err := executeCmd(t, a, "rules", "check")
	require.Error(t, err)
	assert.Contains(t, out, "welding")
}

func TestFilterFlagSet_Parse(t *testing.T) {
	var f filterFlags
	fs := filterFlagSet(&f)
	require.NoError(t, fs.Parse([]string{
		"--date", "2024-01-05", "--tech", "Amy", "--tech", "Bob, Jr.", "--match", "all", "--keyword", "FAT",
	}))

	spec, err := f.spec()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05", spec.Date.Format("2006-01-02"))
	assert.Equal(t, []string{"Amy", "Bob, Jr."}, spec.Technicians, "--tech values are not comma-split")
	assert.Equal(t, "all", string(spec.TechnicianMatch))
	assert.Equal(t, []string{"FAT"}, spec.Keywords)
}
