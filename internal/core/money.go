// Package core provides money parsing and handling utilities.
//
// Source tables publish amounts as text with embedded units ("25.00 Cr",
// "₹1,234.50") and percentages with a trailing sign ("92.4%"). Parsing keeps
// both the display text and the numeric value so callers never re-parse.
package core

import (
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CroreUnit = 1e7
	LakhUnit  = 1e5

	DefaultAmountText  = "0 Cr"
	DefaultPercentText = "0%"
)

type (
	// Amount is a currency quantity in crores together with its source text.
	Amount struct {
		Text   string
		Crores float64
	}

	// Percent is a utilisation percentage together with its source text.
	// Value is not clamped; source data may exceed 100.
	Percent struct {
		Text  string
		Value float64
	}
)

var (
	amountPrefix  = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
	percentPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	amountStrip   = strings.NewReplacer("₹", "", ",", "")
)

// ParseAmount converts a crore amount cell into an Amount. Numbers are taken
// as-is; text has currency symbols and thousands separators removed and the
// leading numeral extracted. Anything unparsable yields zero.
//
// Examples:
//
//	ParseAmount("25.00 Cr")   -> 25
//	ParseAmount("₹1,234.5")  -> 1234.5
//	ParseAmount("n/a")       -> 0
func ParseAmount(v any) Amount {
	if f, ok := numeric(v); ok {
		return Amount{Text: strconv.FormatFloat(f, 'f', -1, 64), Crores: f}
	}
	text, _ := v.(string)
	return Amount{Text: text, Crores: ParseAmountText(text)}
}

// ParseAmountText is the text half of ParseAmount.
func ParseAmountText(s string) float64 {
	cleaned := strings.TrimSpace(amountStrip.Replace(s))
	m := amountPrefix.FindString(cleaned)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

// ParsePercent converts a "92.4%" style cell into a Percent.
func ParsePercent(v any) Percent {
	if f, ok := numeric(v); ok {
		return Percent{Text: strconv.FormatFloat(f, 'f', -1, 64) + "%", Value: f}
	}
	text, _ := v.(string)
	return Percent{Text: text, Value: ParsePercentText(text)}
}

// ParsePercentText strips the percent sign and parses the leading number.
func ParsePercentText(s string) float64 {
	cleaned := strings.TrimSpace(strings.Replace(s, "%", "", 1))
	m := percentPrefix.FindString(cleaned)
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// exact is the full decimal expansion of f. Rounding it acts on the binary
// value, so 1.005 (stored as 1.00499...) rounds to 1.00 at two places.
// NaN and infinities map to zero.
func exact(f float64) decimal.Decimal {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	// f = m * 2^(e-53) with an integral 53-bit m, so 53-e fraction digits
	// hold it exactly.
	_, e := math.Frexp(f)
	digits := max(53-e, 0)
	d, err := decimal.NewFromString(new(big.Float).SetFloat64(f).Text('f', digits))
	if err != nil {
		return decimal.NewFromFloat(f)
	}
	return d
}

// Round1 rounds to one decimal place. Exact ties round away from zero.
func Round1(f float64) float64 {
	return exact(f).Round(1).InexactFloat64()
}

// Share returns part/total as a percentage string with one decimal. A zero
// total renders as "0.0".
func Share(part, total float64) string {
	if total == 0 {
		return "0.0"
	}
	return exact(part / total * 100).StringFixed(1)
}

// FormatAmount renders a crore value as "₹25.00 Cr". Strings are assumed to
// be formatted already and are returned unchanged.
func FormatAmount(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	f, _ := numeric(v)
	return "₹" + exact(f).StringFixed(2) + " Cr"
}

// FormatPercentage renders 92.4 as "92.4%". Strings pass through unchanged.
func FormatPercentage(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	f, _ := numeric(v)
	return exact(f).StringFixed(1) + "%"
}

// ToCrores converts rupees to crores.
func ToCrores(rupees float64) float64 { return rupees / CroreUnit }

// ToLakhs converts rupees to lakhs.
func ToLakhs(rupees float64) float64 { return rupees / LakhUnit }

// FormatCrores renders a rupee amount as "₹x.xx Cr".
func FormatCrores(rupees float64) string {
	return fmt.Sprintf("₹%s Cr", exact(ToCrores(rupees)).StringFixed(2))
}

// FormatLakhs renders a rupee amount as "₹x.xx L".
func FormatLakhs(rupees float64) string {
	return fmt.Sprintf("₹%s L", exact(ToLakhs(rupees)).StringFixed(2))
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}
