package analytics

import (
	"cmp"
	"context"
	"slices"

	"mplads/internal/core"
)

// CategoryComparison is one work category with both members' spending.
type CategoryComparison struct {
	Label      string  `json:"label"`
	ShortLabel string  `json:"shortLabel"`
	Icon       string  `json:"icon"`
	A          float64 `json:"a"`
	B          float64 `json:"b"`
	Delta      float64 `json:"delta"`
}

// Comparison sets two spending profiles side by side. Either profile may be
// nil when the member has no recorded spending.
type Comparison struct {
	A          *core.PersonSpendingProfile `json:"a"`
	B          *core.PersonSpendingProfile `json:"b"`
	Categories []CategoryComparison        `json:"categories"`
}

// Compare merges the breakdowns of a and b by category label, largest
// combined spend first. Categories are only produced when both members
// have profiles. A label repeated within one profile is summed.
func (s *Service) Compare(ctx context.Context, a, b string) Comparison {
	pa, _ := s.GetBreakdown(ctx, a)
	pb, _ := s.GetBreakdown(ctx, b)
	c := Comparison{A: pa, B: pb, Categories: []CategoryComparison{}}
	if pa == nil || pb == nil {
		return c
	}

	index := make(map[string]int)
	add := func(label string) *CategoryComparison {
		if i, ok := index[label]; ok {
			return &c.Categories[i]
		}
		index[label] = len(c.Categories)
		c.Categories = append(c.Categories, CategoryComparison{
			Label:      label,
			ShortLabel: ShortLabel(label),
			Icon:       CategoryIcon(label),
		})
		return &c.Categories[len(c.Categories)-1]
	}
	for _, e := range pa.Breakdown {
		add(e.Label).A += e.Value
	}
	for _, e := range pb.Breakdown {
		add(e.Label).B += e.Value
	}
	for i := range c.Categories {
		c.Categories[i].Delta = Delta(c.Categories[i].A, c.Categories[i].B)
	}
	slices.SortStableFunc(c.Categories, func(x, y CategoryComparison) int {
		return cmp.Compare(y.A+y.B, x.A+x.B)
	})
	return c
}

// Delta is the percentage by which a exceeds b, rounded to one decimal.
// With nothing to compare against it is 100 when a is positive, else 0.
func Delta(a, b float64) float64 {
	if b == 0 {
		if a > 0 {
			return 100
		}
		return 0
	}
	return core.Round1((a - b) / b * 100)
}
