package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// run executes the CLI against the embedded sample with a clean
// environment and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{"DATA_BACKEND", "DATA_DIR", "XLSX_PATH", "GOOGLE_SPREADSHEET_ID"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "default.db"))
	t.Setenv("DATA_BACKEND", "file")

	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSummary(t *testing.T) {
	out, err := run(t, "summary")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	for _, want := range []string{"Source: embedded", "All members:", "Lok Sabha:", "Rajya Sabha:", "RANK", "members shown"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummary_HouseAndLimit(t *testing.T) {
	out, err := run(t, "summary", "--house", "rajya", "--limit", "1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "Selected house:") {
		t.Errorf("expected selected house totals:\n%s", out)
	}
	if !strings.Contains(out, "1 of 2 members shown") {
		t.Errorf("expected limit to apply:\n%s", out)
	}
}

func TestProfile(t *testing.T) {
	out, err := run(t, "profile", "Dr. John Brittas (2021-27)")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	for _, want := range []string{"Dr. John Brittas (Rajya Sabha)", "₹4.00 Cr", "Roads & Connectivity", "₹300.00 L", "75.0%", "Street Lights"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	if _, err := run(t, "profile", "Nobody (2000-06)"); err == nil {
		t.Error("expected error for unknown member")
	}
}

func TestProfile_List(t *testing.T) {
	out, err := run(t, "profile", "--house", "lok")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	tharoor := strings.Index(out, "Shashi Tharoor")
	sudhakaran := strings.Index(out, "K. Sudhakaran")
	if tharoor < 0 || sudhakaran < 0 || tharoor > sudhakaran {
		t.Errorf("expected Lok Sabha members by total descending:\n%s", out)
	}
	if strings.Contains(out, "Brittas") {
		t.Errorf("Rajya Sabha member listed under lok filter:\n%s", out)
	}
}

func TestImportAndSnapshot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "mplads.db")

	out, err := run(t, "import", "--embedded", "--db", db)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "spending profiles from embedded") {
		t.Errorf("unexpected import output:\n%s", out)
	}

	out, err = run(t, "snapshot", "--db", db)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(out, "Source:      embedded") || !strings.Contains(out, "Profiles:    3") {
		t.Errorf("unexpected snapshot output:\n%s", out)
	}

	out, err = run(t, "summary", "--backend", "sqlite", "--db", db, "--house", "rajya")
	if err != nil {
		t.Fatalf("summary from sqlite: %v", err)
	}
	if !strings.Contains(out, "Brittas") {
		t.Errorf("expected imported rows to be served:\n%s", out)
	}
}

func TestImport_RejectsSelf(t *testing.T) {
	db := filepath.Join(t.TempDir(), "mplads.db")
	if _, err := run(t, "import", "--backend", "sqlite", "--db", db); err == nil {
		t.Fatal("expected error importing sqlite into itself")
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mplads.xlsx")
	out, err := run(t, "export", "--out", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "3 spending profiles") {
		t.Errorf("unexpected export output:\n%s", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("workbook not written: %v", err)
	}

	out, err = run(t, "profile", "--backend", "xlsx", "--xlsx", path, "Shashi Tharoor (2024-29)")
	if err != nil {
		t.Fatalf("profile from workbook: %v", err)
	}
	if !strings.Contains(out, "₹9.00 Cr") {
		t.Errorf("expected exported profile to read back:\n%s", out)
	}
}

func TestInvalidFlags(t *testing.T) {
	if _, err := run(t, "summary", "--backend", "memory"); err == nil {
		t.Error("expected validation error for unknown backend")
	}
	if _, err := run(t, "summary", "--log-level", "loud"); err == nil {
		t.Error("expected validation error for unknown log level")
	}
}

func TestSheetsLogin_RequiresClient(t *testing.T) {
	t.Setenv("GOOGLE_OAUTH_CLIENT_JSON", "")
	t.Setenv("GOOGLE_OAUTH_CLIENT_FILE", "")
	if _, err := run(t, "sheets-login"); err == nil {
		t.Fatal("expected error without an OAuth client")
	}
}
