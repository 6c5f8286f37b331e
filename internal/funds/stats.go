package funds

import (
	"math"

	"mplads/internal/core"
)

// HouseComparison puts the totals of the two houses side by side.
type HouseComparison struct {
	Lok   core.AggregateStats `json:"lok"`
	Rajya core.AggregateStats `json:"rajya"`
}

// CompareHouses aggregates each house separately.
func CompareHouses(records []core.FundRecord) HouseComparison {
	return HouseComparison{
		Lok:   Aggregate(FilterByHouse(records, core.HouseLok)),
		Rajya: Aggregate(FilterByHouse(records, core.HouseRajya)),
	}
}

// UtilizationSummary describes the spread of utilisation percentages. It is
// informational; classification always uses the fixed thresholds.
type UtilizationSummary struct {
	Count  int                           `json:"count"`
	Mean   float64                       `json:"mean"`
	StdDev float64                       `json:"stdDev"`
	Levels map[core.PerformanceLevel]int `json:"levels"`
}

// Summarize computes mean and population standard deviation of the
// utilisation percentages and counts records per performance level.
func Summarize(records []core.FundRecord) UtilizationSummary {
	s := UtilizationSummary{
		Count: len(records),
		Levels: map[core.PerformanceLevel]int{
			core.PerformanceHigh:   0,
			core.PerformanceMedium: 0,
			core.PerformanceLow:    0,
		},
	}
	if len(records) == 0 {
		return s
	}
	var sum float64
	for _, r := range records {
		sum += r.Percent.Value
		s.Levels[r.PerformanceLevel]++
	}
	mean := sum / float64(len(records))
	var variance float64
	for _, r := range records {
		d := r.Percent.Value - mean
		variance += d * d
	}
	variance /= float64(len(records))
	s.Mean = core.Round1(mean)
	s.StdDev = core.Round1(math.Sqrt(variance))
	return s
}
