package funds

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"mplads/internal/core"
	"mplads/internal/log"
	"mplads/internal/sources"
)

// Dataset is the canonical collection for both houses. It is built once and
// only read afterwards; every query returns fresh slices.
type Dataset struct {
	lok      []core.FundRecord
	rajya    []core.FundRecord
	loadedAt time.Time
}

// NewDataset wraps already-normalized collections.
func NewDataset(lok, rajya []core.FundRecord) *Dataset {
	return &Dataset{lok: lok, rajya: rajya, loadedAt: time.Now()}
}

// Load reads and normalizes both houses concurrently. A house whose source
// fails is logged and left empty; Load itself never fails.
func Load(ctx context.Context, src sources.FundSource, logger *log.Logger) *Dataset {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentFunds)
	sl := log.NewStructuredLogger(logger)
	norm := NewNormalizer(nil)

	var lok, rajya []core.FundRecord
	load := func(house core.House, dst *[]core.FundRecord) func() error {
		return func() error {
			raw, err := src.LoadFundRecords(ctx, house)
			if err != nil {
				sl.LogError(ctx, "Fund source load failed", fmt.Errorf("load %s: %w", house, err),
					log.ComponentFunds, log.OpLoad, log.NewFields().WithDataset(fmt.Sprintf("%T", src), house.String(), 0, 0))
				*dst = []core.FundRecord{}
				return nil
			}
			*dst = norm.Normalize(raw, house)
			sl.LogDatasetLoaded(ctx, log.ComponentFunds, fmt.Sprintf("%T", src), house.String(), len(*dst), len(raw)-len(*dst))
			return nil
		}
	}

	// Failures are absorbed per house, so the group only joins the two
	// loads and its error is always nil. Cancellation reaches the source
	// through ctx.
	var g errgroup.Group
	g.Go(load(core.LokSabha, &lok))
	g.Go(load(core.RajyaSabha, &rajya))
	_ = g.Wait()

	return NewDataset(lok, rajya)
}

// All returns Lok Sabha records followed by Rajya Sabha records.
func (d *Dataset) All() []core.FundRecord {
	return slices.Concat(d.lok, d.rajya)
}

// Query runs a dashboard query over the dataset.
func (d *Dataset) Query(q Query) Result {
	return q.Apply(d.All())
}

// Len is the number of records across both houses.
func (d *Dataset) Len() int {
	return len(d.lok) + len(d.rajya)
}

// LoadedAt reports when the dataset was built.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Overview bundles the headline figures shown above the member table.
type Overview struct {
	Stats       core.AggregateStats `json:"stats"`
	Houses      HouseComparison     `json:"houses"`
	Utilization UtilizationSummary  `json:"utilization"`
}

// Overview computes global stats, the per-house comparison and the
// utilisation spread.
func (d *Dataset) Overview() Overview {
	all := d.All()
	return Overview{
		Stats:       Aggregate(all),
		Houses:      CompareHouses(all),
		Utilization: Summarize(all),
	}
}
