package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FieldSheetCSV is a four-row field-work sheet covering every activity
// path the reports exercise:
//
//	2024-01-05 Site A: Amy lashes 500 ft; Bob and Amy pull 300 ft
//	2024-01-06 Site B: Carol strands 1,250 ft; Carol's meeting is unclassified
const FieldSheetCSV = `Date,Project,Truck,Action,Employee,Employee,Hours Worked,Notes,Fiber
2024-01-05,Site A,T-12,Lashed Fiber,Amy,,8,Footage: 500,48ct
2024-01-05,Site A,,Pulled Fiber,Bob,Amy,6,Footage: 300,
2024-01-06,Site B,T-7,Strand work,Carol,,4,"Poles 3 to 9, 1,250",
2024-01-06,Site B,T-7,Safety meeting,Carol,,1,FAT install discussed,
`

// WriteFieldSheet writes FieldSheetCSV to a temp file and returns its path.
func WriteFieldSheet(t *testing.T) string {
	t.Helper()
	return WriteSheet(t, "field.csv", FieldSheetCSV)
}

// WriteSheet writes content under name in a temp directory.
func WriteSheet(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing sheet: %v", err)
	}
	return path
}
