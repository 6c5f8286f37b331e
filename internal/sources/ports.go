// Package sources declares the inbound data ports the fund and analytics
// services read from. Adapters live in the subpackages and in storage.
package sources

import (
	"context"

	"mplads/internal/core"
)

// Ports for inbound adapters.
type (
	// FundSource returns the raw fund-utilisation rows of one house.
	FundSource interface {
		LoadFundRecords(ctx context.Context, house core.House) ([]core.RawFundRecord, error)
	}

	// SpendingSource returns the person-keyed spending breakdown mapping.
	// Keys include the tenure suffix, e.g. "Dr. John Brittas (2021-27)".
	SpendingSource interface {
		LoadSpending(ctx context.Context) (map[string]core.RawSpendingProfile, error)
	}

	// Source provides both datasets.
	Source interface {
		FundSource
		SpendingSource
	}
)

// Static serves fixed in-memory data.
type Static struct {
	Funds    map[core.House][]core.RawFundRecord
	Spending map[string]core.RawSpendingProfile
}

var _ Source = Static{}

func (s Static) LoadFundRecords(_ context.Context, house core.House) ([]core.RawFundRecord, error) {
	return s.Funds[house], nil
}

func (s Static) LoadSpending(_ context.Context) (map[string]core.RawSpendingProfile, error) {
	return s.Spending, nil
}
