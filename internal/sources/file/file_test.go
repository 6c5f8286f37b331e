package file

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"mplads/internal/core"
)

func TestSourceLoadFundRecords(t *testing.T) {
	fsys := fstest.MapFS{
		LokSabhaFile: {Data: []byte(`[
			{"Hon'ble Member Of Parliament": "Shashi Tharoor (2024-29)", "Constituency": "Thiruvananthapuram", "Rank": 3},
			{"Hon'ble Member Of Parliament": "Total", "Constituency": " "}
		]`)},
		RajyaSabhaFile: {Data: []byte(`null`)},
	}
	s := New(fsys)

	lok, err := s.LoadFundRecords(context.Background(), core.LokSabha)
	if err != nil {
		t.Fatalf("load lok: %v", err)
	}
	if len(lok) != 2 || lok[0]["Rank"] != float64(3) || lok[1]["Constituency"] != " " {
		t.Fatalf("unexpected lok rows: %#v", lok)
	}

	rajya, err := s.LoadFundRecords(context.Background(), core.RajyaSabha)
	if err != nil || rajya == nil || len(rajya) != 0 {
		t.Fatalf("null file should decode as empty: %#v, %v", rajya, err)
	}

	if _, err := s.LoadFundRecords(context.Background(), core.House("Senate")); !errors.Is(err, core.ErrUnknownHouse) {
		t.Fatalf("expected ErrUnknownHouse, got %v", err)
	}
}

func TestSourceLoadSpending(t *testing.T) {
	fsys := fstest.MapFS{
		SpendingFile: {Data: []byte(`{
			"Dr. John Brittas (2021-27)": {
				"house": "Rajya Sabha",
				"total_expenditure": 40000000,
				"breakdown": [{"label": "Street lights", "value": 10000000}]
			}
		}`)},
	}
	got, err := New(fsys).LoadSpending(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := got["Dr. John Brittas (2021-27)"]
	if p.House != "Rajya Sabha" || p.TotalExpenditure != 40000000 || len(p.Breakdown) != 1 || p.Breakdown[0].Value != 10000000 {
		t.Fatalf("profile = %+v", p)
	}
}

func TestSourceErrors(t *testing.T) {
	s := New(fstest.MapFS{SpendingFile: {Data: []byte(`{not json`)}})
	if _, err := s.LoadSpending(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := s.LoadFundRecords(context.Background(), core.LokSabha); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.LoadSpending(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestNewDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LokSabhaFile), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	if got, err := s.LoadFundRecords(context.Background(), core.LokSabha); err != nil || len(got) != 0 {
		t.Fatalf("load: %v %v", got, err)
	}

	if _, err := NewDir(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing dir")
	}
	if _, err := NewDir(filepath.Join(dir, LokSabhaFile)); err == nil {
		t.Fatal("expected error for file path")
	}
}
