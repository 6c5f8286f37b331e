package http

import (
	"strings"

	"mplads/internal/analytics"
	"mplads/internal/core"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 {
			return -1
		}
		return r
	}, s)
}

// breakdownEntryView decorates a breakdown category for the chart legend.
type breakdownEntryView struct {
	core.SpendingBreakdownEntry
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// profileView is a spending profile as the analytics page renders it.
type profileView struct {
	Name             string               `json:"name"`
	DisplayName      string               `json:"displayName"`
	House            core.House           `json:"house"`
	TotalExpenditure float64              `json:"totalExpenditure"`
	TotalCrores      string               `json:"totalCrores"`
	Image            string               `json:"image"`
	Breakdown        []breakdownEntryView `json:"breakdown"`
}

// newProfileView assigns colours by position in the sorted breakdown,
// so the largest category always gets the first palette colour.
func newProfileView(p *core.PersonSpendingProfile) *profileView {
	if p == nil {
		return nil
	}
	v := &profileView{
		Name:             p.Name,
		DisplayName:      p.DisplayName,
		House:            p.House,
		TotalExpenditure: p.TotalExpenditure,
		TotalCrores:      analytics.FormatCrores(p.TotalExpenditure),
		Image:            p.Image,
		Breakdown:        make([]breakdownEntryView, len(p.Breakdown)),
	}
	for i, e := range p.Breakdown {
		v.Breakdown[i] = breakdownEntryView{
			SpendingBreakdownEntry: e,
			Color:                  analytics.CategoryColor(i),
			Icon:                   analytics.CategoryIcon(e.Label),
		}
	}
	return v
}

// comparisonView is analytics.Comparison with decorated profiles.
type comparisonView struct {
	A          *profileView                   `json:"a"`
	B          *profileView                   `json:"b"`
	Categories []analytics.CategoryComparison `json:"categories"`
}
