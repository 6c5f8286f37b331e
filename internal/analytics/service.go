// Package analytics serves per-member MPLADS spending breakdowns: who spent
// how much, on which categories of work, and how two members compare.
package analytics

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"mplads/internal/core"
	"mplads/internal/log"
	"mplads/internal/sources"
)

// Service answers analytics queries over a spending source. The source is
// read at most once per Service; a failed read leaves the Service empty.
type Service struct {
	src    sources.SpendingSource
	logger *log.Logger

	group  singleflight.Group
	mu     sync.RWMutex
	loaded bool
	data   map[string]core.RawSpendingProfile
}

// NewService creates a Service reading from src on first use.
func NewService(src sources.SpendingSource, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{src: src, logger: logger.WithComponent(log.ComponentAnalytics)}
}

func (s *Service) profiles(ctx context.Context) map[string]core.RawSpendingProfile {
	s.mu.RLock()
	if s.loaded {
		data := s.data
		s.mu.RUnlock()
		return data
	}
	s.mu.RUnlock()

	// The first caller's cancellation must not poison the memo.
	ctx = context.WithoutCancel(ctx)
	v, _, _ := s.group.Do("spending", func() (any, error) {
		s.mu.RLock()
		if s.loaded {
			data := s.data
			s.mu.RUnlock()
			return data, nil
		}
		s.mu.RUnlock()

		data := s.load(ctx)
		s.mu.Lock()
		s.data, s.loaded = data, true
		s.mu.Unlock()
		return data, nil
	})
	return v.(map[string]core.RawSpendingProfile)
}

func (s *Service) load(ctx context.Context) map[string]core.RawSpendingProfile {
	sl := log.NewStructuredLogger(s.logger)
	source := fmt.Sprintf("%T", s.src)

	raw, err := s.src.LoadSpending(ctx)
	if err != nil {
		sl.LogError(ctx, "Spending source load failed", err, log.ComponentAnalytics, log.OpLoad,
			log.NewFields().WithDataset(source, "", 0, 0))
		return map[string]core.RawSpendingProfile{}
	}

	data := make(map[string]core.RawSpendingProfile, len(raw))
	for name, p := range raw {
		if h, err := core.ParseHouse(p.House); err == nil {
			p.House = h.String()
		} else {
			s.logger.WarnContext(ctx, "Spending profile has unknown house",
				log.FieldMember, name, log.FieldHouse, p.House)
		}
		data[name] = p
	}
	sl.LogDatasetLoaded(ctx, log.ComponentAnalytics, source, "", len(data), 0)
	return data
}

// ListAll returns every member with recorded spending, highest total first.
// Members with equal totals are ordered by name.
func (s *Service) ListAll(ctx context.Context) []core.PersonListEntry {
	data := s.profiles(ctx)
	out := make([]core.PersonListEntry, 0, len(data))
	for name, p := range data {
		out = append(out, core.PersonListEntry{
			Name:             name,
			DisplayName:      core.StripTenure(name),
			House:            core.House(p.House),
			TotalExpenditure: p.TotalExpenditure,
			Image:            p.Image,
		})
	}
	slices.SortFunc(out, func(a, b core.PersonListEntry) int {
		if c := cmp.Compare(b.TotalExpenditure, a.TotalExpenditure); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// ListByHouse narrows ListAll to one house.
func (s *Service) ListByHouse(ctx context.Context, filter core.HouseFilter) []core.PersonListEntry {
	all := s.ListAll(ctx)
	if filter == core.HouseAll || filter == "" {
		return all
	}
	out := make([]core.PersonListEntry, 0, len(all))
	for _, e := range all {
		if filter.Matches(e.House) {
			out = append(out, e)
		}
	}
	return out
}

// GetBreakdown returns the spending profile keyed by name, including its
// tenure suffix. A member without recorded spending is reported with ok
// false; that is not an error.
func (s *Service) GetBreakdown(ctx context.Context, name string) (*core.PersonSpendingProfile, bool) {
	p, ok := s.profiles(ctx)[name]
	if !ok {
		return nil, false
	}
	return buildProfile(name, p), true
}

func buildProfile(name string, p core.RawSpendingProfile) *core.PersonSpendingProfile {
	breakdown := make([]core.SpendingBreakdownEntry, len(p.Breakdown))
	for i, item := range p.Breakdown {
		breakdown[i] = core.SpendingBreakdownEntry{
			ID:         i,
			Label:      item.Label,
			ShortLabel: ShortLabel(item.Label),
			Value:      item.Value,
			Percentage: core.Share(item.Value, p.TotalExpenditure),
		}
	}
	slices.SortStableFunc(breakdown, func(a, b core.SpendingBreakdownEntry) int {
		return cmp.Compare(b.Value, a.Value)
	})
	return &core.PersonSpendingProfile{
		Name:             name,
		DisplayName:      core.StripTenure(name),
		House:            core.House(p.House),
		TotalExpenditure: p.TotalExpenditure,
		Image:            p.Image,
		Breakdown:        breakdown,
	}
}

// ToCrores converts rupees to crores.
func ToCrores(rupees float64) float64 { return core.ToCrores(rupees) }

// ToLakhs converts rupees to lakhs.
func ToLakhs(rupees float64) float64 { return core.ToLakhs(rupees) }

// FormatCrores renders rupees as "₹x.xx Cr".
func FormatCrores(rupees float64) string { return core.FormatCrores(rupees) }

// FormatLakhs renders rupees as "₹x.xx L".
func FormatLakhs(rupees float64) string { return core.FormatLakhs(rupees) }
