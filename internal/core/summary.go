package core

import (
	"regexp"
	"strings"
)

// RawSpendingProfile is one person's entry in the spending-breakdown source,
// keyed externally by "Name (tenure)".
type RawSpendingProfile struct {
	House            string             `json:"house"`
	TotalExpenditure float64            `json:"total_expenditure"`
	Image            string             `json:"image,omitempty"`
	Breakdown        []RawBreakdownItem `json:"breakdown"`
}

// RawBreakdownItem is an expenditure category and its rupee value.
type RawBreakdownItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PersonListEntry is a row of the analytics member picker.
type PersonListEntry struct {
	Name             string  `json:"name"`
	DisplayName      string  `json:"displayName"`
	House            House   `json:"house"`
	TotalExpenditure float64 `json:"totalExpenditure"`
	Image            string  `json:"image"`
}

// SpendingBreakdownEntry is one category of a PersonSpendingProfile.
type SpendingBreakdownEntry struct {
	ID         int     `json:"id"`
	Label      string  `json:"label"`
	ShortLabel string  `json:"shortLabel"`
	Value      float64 `json:"value"`
	Percentage string  `json:"percentage"`
}

// PersonSpendingProfile is a member's expenditure split into categories,
// largest first.
type PersonSpendingProfile struct {
	Name             string                   `json:"name"`
	DisplayName      string                   `json:"displayName"`
	House            House                    `json:"house"`
	TotalExpenditure float64                  `json:"totalExpenditure"`
	Image            string                   `json:"image"`
	Breakdown        []SpendingBreakdownEntry `json:"breakdown"`
}

var (
	tenureSuffix = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	tenureGroup  = regexp.MustCompile(`\(([^)]+)\)`)
)

// StripTenure removes a trailing "(2021-27)" style suffix.
func StripTenure(name string) string {
	return strings.TrimSpace(tenureSuffix.ReplaceAllString(name, ""))
}

// ExtractTenure returns the contents of the first parenthesized group.
func ExtractTenure(name string) string {
	m := tenureGroup.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}
