package xlsx

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"mplads/internal/core"
)

func TestWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mplads.xlsx")
	funds := map[core.House][]core.RawFundRecord{
		core.LokSabha: {
			{"Hon'ble Member Of Parliament": "Shashi Tharoor (2024-29)", "Constituency": "Thiruvananthapuram", "Rank": float64(2)},
		},
		core.RajyaSabha: {
			{"Hon'ble Member Of Parliament": "Dr. John Brittas (2021-27)", "Constituency": "Kerala", "% Utilised": "80.0%"},
		},
	}
	spending := map[string]core.RawSpendingProfile{
		"Dr. John Brittas (2021-27)": {
			House:            "Rajya Sabha",
			TotalExpenditure: 40000000,
			Breakdown: []core.RawBreakdownItem{
				{Label: "Street lights", Value: 10000000},
				{Label: "Construction of culverts and bridges", Value: 30000000},
			},
		},
	}
	if err := WriteWorkbook(path, Config{}, funds, spending); err != nil {
		t.Fatalf("write: %v", err)
	}

	s := New(Config{Path: path})
	lok, err := s.LoadFundRecords(context.Background(), core.LokSabha)
	if err != nil {
		t.Fatalf("load lok: %v", err)
	}
	wantLok := []core.RawFundRecord{{
		"Constituency":                 "Thiruvananthapuram",
		"Hon'ble Member Of Parliament": "Shashi Tharoor (2024-29)",
		"Rank":                         "2",
	}}
	if diff := cmp.Diff(wantLok, lok); diff != "" {
		t.Fatalf("lok mismatch (-want +got):\n%s", diff)
	}

	got, err := s.LoadSpending(context.Background())
	if err != nil {
		t.Fatalf("load spending: %v", err)
	}
	if diff := cmp.Diff(spending, got); diff != "" {
		t.Fatalf("spending mismatch (-want +got):\n%s", diff)
	}
}

func TestSourceErrors(t *testing.T) {
	s := New(Config{Path: filepath.Join(t.TempDir(), "missing.xlsx")})
	if _, err := s.LoadSpending(context.Background()); err == nil {
		t.Fatal("expected error for missing workbook")
	}
	if _, err := s.LoadFundRecords(context.Background(), core.House("Senate")); !errors.Is(err, core.ErrUnknownHouse) {
		t.Fatalf("expected ErrUnknownHouse, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty.xlsx")
	f := excelize.NewFile()
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()
	if _, err := New(Config{Path: path}).LoadFundRecords(context.Background(), core.LokSabha); err == nil {
		t.Fatal("expected error for missing sheet")
	}
}
