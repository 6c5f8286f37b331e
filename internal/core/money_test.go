package core

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  any
		out float64
	}{
		{"25.00 Cr", 25},
		{"₹1,234.50 Cr", 1234.5},
		{" 7 Cr", 7},
		{"12.", 12},
		{".5 Cr", 0.5},
		{"Cr 5", 0},
		{"-3 Cr", 0},
		{"", 0},
		{"abc", 0},
		{nil, 0},
		{18.75, 18.75},
		{5, 5},
	}
	for _, tc := range cases {
		got := ParseAmount(tc.in)
		if got.Crores != tc.out {
			t.Fatalf("%#v expected %v, got %v", tc.in, tc.out, got.Crores)
		}
	}
}

func TestParseAmountKeepsText(t *testing.T) {
	a := ParseAmount("₹25.00 Cr")
	if a.Text != "₹25.00 Cr" {
		t.Fatalf("text not preserved: %q", a.Text)
	}
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		in  any
		out float64
	}{
		{"92.4%", 92.4},
		{" 80.0 % ", 80},
		{"112.5%", 112.5},
		{"0%", 0},
		{"%", 0},
		{"n/a", 0},
		{"", 0},
		{45.5, 45.5},
	}
	for _, tc := range cases {
		if got := ParsePercent(tc.in).Value; got != tc.out {
			t.Fatalf("%#v expected %v, got %v", tc.in, tc.out, got)
		}
	}
}

func TestRound1(t *testing.T) {
	cases := map[float64]float64{
		80:       80,
		66.66666: 66.7,
		0.05:     0.1,
		12.34:    12.3,
		-1.25:    -1.3,
	}
	for in, want := range cases {
		if got := Round1(in); got != want {
			t.Fatalf("Round1(%v) = %v, want %v", in, got, want)
		}
	}
}

// Formatting rounds the stored binary value, as printf and toFixed do,
// not its shortest decimal spelling.
func TestFormattingRoundsBinaryValue(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"amount 1.005", FormatAmount(1.005), "₹1.00 Cr"},
		{"amount 2.675", FormatAmount(2.675), "₹2.67 Cr"},
		{"amount tie", FormatAmount(0.125), "₹0.13 Cr"},
		{"percent 0.15", FormatPercentage(0.15), "0.1%"},
		{"percent 1.45", FormatPercentage(1.45), "1.4%"},
		{"percent 0.25", FormatPercentage(0.25), "0.3%"},
		{"crores", FormatCrores(10_050_000), "₹1.00 Cr"},
		{"lakhs", FormatLakhs(100_500), "₹1.00 L"},
		{"share", Share(1, 8), "12.5"},
		{"zero", FormatAmount(0.0), "₹0.00 Cr"},
		{"negative", FormatPercentage(-2.25), "-2.3%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
	if got := Round1(1.45); got != 1.4 {
		t.Errorf("Round1(1.45) = %v, want 1.4", got)
	}
	if got := Round1(math.NaN()); got != 0 {
		t.Errorf("Round1(NaN) = %v, want 0", got)
	}
}

func TestShare(t *testing.T) {
	if got := Share(1, 3); got != "33.3" {
		t.Fatalf("Share(1,3) = %s", got)
	}
	if got := Share(2, 3); got != "66.7" {
		t.Fatalf("Share(2,3) = %s", got)
	}
	if got := Share(5, 0); got != "0.0" {
		t.Fatalf("Share with zero total = %s", got)
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatAmount(25.0); got != "₹25.00 Cr" {
		t.Fatalf("FormatAmount: %s", got)
	}
	if got := FormatAmount("₹3.10 Cr"); got != "₹3.10 Cr" {
		t.Fatalf("FormatAmount should pass strings through: %s", got)
	}
	if got := FormatPercentage(92.44); got != "92.4%" {
		t.Fatalf("FormatPercentage: %s", got)
	}
	if got := FormatPercentage("n/a"); got != "n/a" {
		t.Fatalf("FormatPercentage should pass strings through: %s", got)
	}
	if got := FormatCrores(25_000_000); got != "₹2.50 Cr" {
		t.Fatalf("FormatCrores: %s", got)
	}
	if got := FormatLakhs(250_000); got != "₹2.50 L" {
		t.Fatalf("FormatLakhs: %s", got)
	}
	if ToCrores(1e7) != 1 || ToLakhs(1e5) != 1 {
		t.Fatalf("unit conversion")
	}
}
