package core

import (
	"encoding/json"
	"errors"
	"strings"
)

const (
	LokSabha   House = "Lok Sabha"
	RajyaSabha House = "Rajya Sabha"
)

const (
	HouseAll   HouseFilter = "all"
	HouseLok   HouseFilter = "lok"
	HouseRajya HouseFilter = "rajya"
)

const (
	PerformanceHigh   PerformanceLevel = "high"
	PerformanceMedium PerformanceLevel = "medium"
	PerformanceLow    PerformanceLevel = "low"
)

const (
	SortByRank     SortKey = "rank"
	SortByName     SortKey = "name"
	SortByUtilized SortKey = "utilized"
	SortByPercent  SortKey = "percent"
)

// Utilisation thresholds for the performance classification.
const (
	HighThreshold   = 70.0
	MediumThreshold = 40.0
)

type (
	// House is a chamber of parliament.
	House string

	// HouseFilter selects which chamber a view covers.
	HouseFilter string

	PerformanceLevel string

	SortKey string

	// RawFundRecord is one row of a scraped fund-utilisation table, keyed by
	// the column header as published. Values are strings or numbers.
	RawFundRecord map[string]any

	// FundRecord is the canonical, normalized form of a RawFundRecord.
	FundRecord struct {
		Rank             int
		Name             string
		Tenure           string
		Constituency     string
		Party            string
		House            House
		Allocated        Amount
		Utilised         Amount
		Percent          Percent
		PerformanceLevel PerformanceLevel
		ImageRef         string
	}

	// AggregateStats is a fold over a sequence of FundRecord.
	AggregateStats struct {
		TotalAllocated float64 `json:"totalAllocated"`
		TotalUtilised  float64 `json:"totalUtilised"`
		OverallPercent float64 `json:"overallPercent"`
		TotalMPs       int     `json:"totalMPs"`
	}
)

var (
	ErrUnknownHouse = errors.New("unknown house")
	ErrNoData       = errors.New("no data")
)

// ParseHouse accepts the chamber names as they appear in source data.
func ParseHouse(s string) (House, error) {
	switch normalizeKey(s) {
	case "lok sabha", "loksabha", "lok":
		return LokSabha, nil
	case "rajya sabha", "rajyasabha", "rajya":
		return RajyaSabha, nil
	}
	return "", ErrUnknownHouse
}

func (h House) String() string {
	return string(h)
}

// IsValid reports whether h is one of the two chambers.
func (h House) IsValid() bool {
	return h == LokSabha || h == RajyaSabha
}

// ParseHouseFilter maps a query value to a filter; anything unrecognised
// selects both houses.
func ParseHouseFilter(s string) HouseFilter {
	switch HouseFilter(strings.ToLower(strings.TrimSpace(s))) {
	case HouseLok:
		return HouseLok
	case HouseRajya:
		return HouseRajya
	}
	return HouseAll
}

// Matches reports whether a record of house h belongs to the filtered view.
func (f HouseFilter) Matches(h House) bool {
	switch f {
	case HouseLok:
		return h == LokSabha
	case HouseRajya:
		return h == RajyaSabha
	}
	return true
}

// ParseSortKey falls back to rank for unknown keys.
func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByName:
		return SortByName
	case SortByUtilized:
		return SortByUtilized
	case SortByPercent:
		return SortByPercent
	}
	return SortByRank
}

// ClassifyPerformance buckets a utilisation percentage. Values above 100
// are valid (over-utilisation) and classify as high.
func ClassifyPerformance(percent float64) PerformanceLevel {
	switch {
	case percent >= HighThreshold:
		return PerformanceHigh
	case percent >= MediumThreshold:
		return PerformanceMedium
	default:
		return PerformanceLow
	}
}

// Color returns the dashboard colour for the level.
func (p PerformanceLevel) Color() string {
	switch p {
	case PerformanceHigh:
		return "#13ecb2"
	case PerformanceMedium:
		return "#f59e0b"
	case PerformanceLow:
		return "#ef4444"
	default:
		return "#94a3b8"
	}
}

// MarshalJSON flattens the parsed quantities next to their display text.
func (r FundRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(fundRecordJSON{
		Rank:             r.Rank,
		Name:             r.Name,
		Tenure:           r.Tenure,
		Constituency:     r.Constituency,
		Party:            r.Party,
		House:            r.House,
		AllocatedFund:    r.Allocated.Text,
		UtilisedFund:     r.Utilised.Text,
		PercentUtilised:  r.Percent.Text,
		AllocatedAmount:  r.Allocated.Crores,
		UtilisedAmount:   r.Utilised.Crores,
		PercentValue:     r.Percent.Value,
		PerformanceLevel: r.PerformanceLevel,
		PerformanceColor: r.PerformanceLevel.Color(),
		Image:            r.ImageRef,
	})
}

type fundRecordJSON struct {
	Rank             int              `json:"rank"`
	Name             string           `json:"name"`
	Tenure           string           `json:"tenure"`
	Constituency     string           `json:"constituency"`
	Party            string           `json:"party"`
	House            House            `json:"house"`
	AllocatedFund    string           `json:"allocatedFund"`
	UtilisedFund     string           `json:"utilisedFund"`
	PercentUtilised  string           `json:"percentUtilised"`
	AllocatedAmount  float64          `json:"allocatedAmount"`
	UtilisedAmount   float64          `json:"utilisedAmount"`
	PercentValue     float64          `json:"percentValue"`
	PerformanceLevel PerformanceLevel `json:"performanceLevel"`
	PerformanceColor string           `json:"performanceColor"`
	Image            string           `json:"image"`
}

// Validate checks the invariants every record in a canonical collection
// holds.
func (r FundRecord) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("empty name")
	}
	if strings.TrimSpace(r.Constituency) == "" {
		return errors.New("empty constituency")
	}
	if !r.House.IsValid() {
		return ErrUnknownHouse
	}
	return nil
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
