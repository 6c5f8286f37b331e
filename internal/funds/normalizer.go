// Package funds normalizes MPLADS fund-utilisation tables and answers the
// dashboard's aggregate, filter, search and sort queries over them.
package funds

import (
	"math"
	"strconv"
	"strings"

	"mplads/internal/core"
)

// FieldRule resolves one logical field from a raw record by probing its
// aliases in order. The first alias holding a non-empty value wins.
type FieldRule struct {
	Field   string
	Aliases []string
	Default any
}

// Resolve returns the value of the first present alias, or the default.
func (r FieldRule) Resolve(raw core.RawFundRecord) any {
	for _, alias := range r.Aliases {
		if v, ok := raw[alias]; ok && present(v) {
			return v
		}
	}
	return r.Default
}

// Logical field names.
const (
	FieldName         = "name"
	FieldConstituency = "constituency"
	FieldAllocated    = "allocated"
	FieldUtilised     = "utilised"
	FieldPercent      = "percent"
	FieldRank         = "rank"
	FieldParty        = "party"
	FieldHouse        = "house"
	FieldTenure       = "tenure"
	FieldImage        = "image"
)

// Rules is the aliasing contract between source exports and FundRecord.
type Rules map[string]FieldRule

// DefaultRules covers the column headers of the government MPLADS tables
// and the camelCase keys of older hand-maintained exports.
func DefaultRules() Rules {
	rules := []FieldRule{
		{Field: FieldName, Aliases: []string{"Hon'ble Member Of Parliament", "name"}, Default: ""},
		{Field: FieldConstituency, Aliases: []string{"Constituency", "constituency"}, Default: ""},
		{Field: FieldAllocated, Aliases: []string{"Total Allocated Fund (Cr)", "allocatedFund"}, Default: core.DefaultAmountText},
		{Field: FieldUtilised, Aliases: []string{"Fund Utilised (Cr)", "utilisedFund"}, Default: core.DefaultAmountText},
		{Field: FieldPercent, Aliases: []string{"% Utilised", "percentUtilised"}, Default: core.DefaultPercentText},
		{Field: FieldRank, Aliases: []string{"Rank", "rank"}, Default: 0},
		{Field: FieldParty, Aliases: []string{"party", "Party"}, Default: ""},
		{Field: FieldHouse, Aliases: []string{"house", "House"}, Default: ""},
		{Field: FieldTenure, Aliases: []string{"tenure", "Tenure"}, Default: ""},
		{Field: FieldImage, Aliases: []string{"image", "Image"}, Default: ""},
	}
	out := make(Rules, len(rules))
	for _, r := range rules {
		out[r.Field] = r
	}
	return out
}

func (rs Rules) resolve(field string, raw core.RawFundRecord) any {
	rule, ok := rs[field]
	if !ok {
		return nil
	}
	return rule.Resolve(raw)
}

// Normalizer turns raw table rows into canonical FundRecords.
type Normalizer struct {
	rules Rules
}

// NewNormalizer builds a normalizer; nil rules selects DefaultRules.
func NewNormalizer(rules Rules) *Normalizer {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Normalizer{rules: rules}
}

// Normalize converts the raw rows of one house. Aggregate, footer and
// placeholder rows (blank or non-breaking-space name or constituency) are
// dropped. Output order follows input order.
func Normalize(raw []core.RawFundRecord, house core.House) []core.FundRecord {
	return NewNormalizer(nil).Normalize(raw, house)
}

// Normalize converts the raw rows of one house.
func (n *Normalizer) Normalize(raw []core.RawFundRecord, house core.House) []core.FundRecord {
	out := make([]core.FundRecord, 0, len(raw))
	for _, row := range raw {
		if rec, ok := n.record(row, house); ok {
			out = append(out, rec)
		}
	}
	return out
}

func (n *Normalizer) record(row core.RawFundRecord, house core.House) (core.FundRecord, bool) {
	rawName := text(n.rules.resolve(FieldName, row))

	recordHouse := house
	if h, err := core.ParseHouse(text(n.rules.resolve(FieldHouse, row))); err == nil {
		recordHouse = h
	}

	tenure := text(n.rules.resolve(FieldTenure, row))
	if tenure == "" {
		tenure = core.ExtractTenure(rawName)
	}

	percent := core.ParsePercent(n.rules.resolve(FieldPercent, row))

	rec := core.FundRecord{
		Rank:             rank(n.rules.resolve(FieldRank, row)),
		Name:             core.StripTenure(rawName),
		Tenure:           tenure,
		Constituency:     strings.TrimSpace(strings.ReplaceAll(text(n.rules.resolve(FieldConstituency, row)), "\u00a0", "")),
		Party:            strings.TrimSpace(text(n.rules.resolve(FieldParty, row))),
		House:            recordHouse,
		Allocated:        core.ParseAmount(n.rules.resolve(FieldAllocated, row)),
		Utilised:         core.ParseAmount(n.rules.resolve(FieldUtilised, row)),
		Percent:          percent,
		PerformanceLevel: core.ClassifyPerformance(percent.Value),
		ImageRef:         strings.TrimSpace(text(n.rules.resolve(FieldImage, row))),
	}
	// Sentinel rows (totals, blank separators) and rows without a usable
	// house fail validation and are dropped.
	if err := rec.Validate(); err != nil {
		return core.FundRecord{}, false
	}
	return rec, true
}

func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case int:
		return x != 0
	case int64:
		return x != 0
	case bool:
		return x
	}
	return true
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	}
	return ""
}

// rank reads a rank cell. Fractional ranks round to the nearest integer,
// half away from zero; unparsable values are 0.
func rank(v any) int {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return int(math.Round(x))
	case int:
		return x
	case int64:
		return int(x)
	case string:
		s := strings.TrimSpace(x)
		if i, err := strconv.Atoi(s); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return rank(f)
		}
	}
	return 0
}
