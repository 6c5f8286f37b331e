package core

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestClassifyPerformance(t *testing.T) {
	cases := []struct {
		p    float64
		want PerformanceLevel
	}{
		{100, PerformanceHigh},
		{130.2, PerformanceHigh},
		{70, PerformanceHigh},
		{69.99, PerformanceMedium},
		{40, PerformanceMedium},
		{39.9, PerformanceLow},
		{0, PerformanceLow},
	}
	for _, tc := range cases {
		if got := ClassifyPerformance(tc.p); got != tc.want {
			t.Fatalf("ClassifyPerformance(%v) = %s, want %s", tc.p, got, tc.want)
		}
	}
}

func TestPerformanceColor(t *testing.T) {
	if PerformanceHigh.Color() != "#13ecb2" || PerformanceLow.Color() != "#ef4444" {
		t.Fatalf("unexpected colors")
	}
	if PerformanceLevel("").Color() != "#94a3b8" {
		t.Fatalf("unknown level should be gray")
	}
}

func TestParseHouse(t *testing.T) {
	cases := map[string]House{
		"Lok Sabha":         LokSabha,
		"  lok   sabha ":    LokSabha,
		"RAJYA SABHA":       RajyaSabha,
		"Rajya\u00a0Sabha": RajyaSabha,
	}
	for in, want := range cases {
		got, err := ParseHouse(in)
		if err != nil || got != want {
			t.Fatalf("ParseHouse(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseHouse("Vidhan Sabha"); err != ErrUnknownHouse {
		t.Fatalf("expected ErrUnknownHouse, got %v", err)
	}
}

func TestHouseFilter(t *testing.T) {
	if ParseHouseFilter("LOK") != HouseLok || ParseHouseFilter("rajya") != HouseRajya {
		t.Fatalf("filter parse")
	}
	if ParseHouseFilter("senate") != HouseAll {
		t.Fatalf("unknown filter should be all")
	}
	if !HouseAll.Matches(RajyaSabha) || HouseLok.Matches(RajyaSabha) || !HouseRajya.Matches(RajyaSabha) {
		t.Fatalf("filter matching")
	}
}

func TestParseSortKey(t *testing.T) {
	if ParseSortKey("percent") != SortByPercent || ParseSortKey("bogus") != SortByRank || ParseSortKey("") != SortByRank {
		t.Fatalf("sort key parse")
	}
}

func TestTenureHelpers(t *testing.T) {
	if got := StripTenure("Dr. John Brittas (2021-27)"); got != "Dr. John Brittas" {
		t.Fatalf("StripTenure: %q", got)
	}
	if got := StripTenure("Shashi Tharoor"); got != "Shashi Tharoor" {
		t.Fatalf("StripTenure no suffix: %q", got)
	}
	if got := ExtractTenure("Dr. John Brittas (2021-27)"); got != "2021-27" {
		t.Fatalf("ExtractTenure: %q", got)
	}
	if got := ExtractTenure("No Tenure"); got != "" {
		t.Fatalf("ExtractTenure empty: %q", got)
	}
}

func TestFundRecordJSON(t *testing.T) {
	r := FundRecord{
		Rank:             3,
		Name:             "Dr. A",
		Constituency:     "X",
		House:            RajyaSabha,
		Allocated:        Amount{Text: "25.00 Cr", Crores: 25},
		Percent:          Percent{Text: "80.0%", Value: 80},
		PerformanceLevel: PerformanceHigh,
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"allocatedAmount":25`, `"allocatedFund":"25.00 Cr"`, `"performanceColor":"#13ecb2"`, `"house":"Rajya Sabha"`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("json %s missing %s", b, want)
		}
	}
}

func TestFundRecordValidate(t *testing.T) {
	good := FundRecord{Name: "A", Constituency: "X", House: LokSabha}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []FundRecord{
		{Name: " ", Constituency: "X", House: LokSabha},
		{Name: "A", Constituency: " ", House: LokSabha},
		{Name: "A", Constituency: "X", House: "Senate"},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
