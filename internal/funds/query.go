package funds

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"mplads/internal/core"
)

// Query describes one dashboard view: which house, an optional free-text
// search and a sort key.
type Query struct {
	House  core.HouseFilter
	Search string
	Sort   core.SortKey
}

// Result is a query's records together with the totals of that view.
type Result struct {
	Records []core.FundRecord   `json:"records"`
	Stats   core.AggregateStats `json:"stats"`
}

// Apply filters by house, searches, then sorts. The input is not modified.
func (q Query) Apply(records []core.FundRecord) Result {
	view := FilterByHouse(records, q.House)
	stats := Aggregate(view)
	view = Search(view, q.Search)
	view = Sort(view, q.Sort)
	return Result{Records: view, Stats: stats}
}

// Aggregate sums allocated and utilised amounts. OverallPercent is rounded
// to one decimal and is zero when nothing was allocated.
func Aggregate(records []core.FundRecord) core.AggregateStats {
	var stats core.AggregateStats
	for _, r := range records {
		stats.TotalAllocated += r.Allocated.Crores
		stats.TotalUtilised += r.Utilised.Crores
	}
	stats.TotalMPs = len(records)
	if stats.TotalAllocated > 0 {
		stats.OverallPercent = core.Round1(stats.TotalUtilised / stats.TotalAllocated * 100)
	}
	return stats
}

// FilterByHouse keeps the records of the selected house. HouseAll returns
// the input as is.
func FilterByHouse(records []core.FundRecord, house core.HouseFilter) []core.FundRecord {
	if house == core.HouseAll || house == "" {
		return records
	}
	out := make([]core.FundRecord, 0, len(records))
	for _, r := range records {
		if house.Matches(r.House) {
			out = append(out, r)
		}
	}
	return out
}

// Search keeps records whose name, constituency or party contains the query,
// ignoring case. Non-breaking spaces match plain spaces on either side. A
// blank query returns the input unchanged.
func Search(records []core.FundRecord, query string) []core.FundRecord {
	query = strings.TrimSpace(query)
	if query == "" {
		return records
	}
	fold := cases.Fold()
	key := func(s string) string { return fold.String(nbspToSpace.Replace(s)) }
	needle := key(query)
	out := make([]core.FundRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(key(r.Name), needle) ||
			strings.Contains(key(r.Constituency), needle) ||
			(r.Party != "" && strings.Contains(key(r.Party), needle)) {
			out = append(out, r)
		}
	}
	return out
}

var nbspToSpace = strings.NewReplacer("\u00a0", " ")

// Sort returns a new slice ordered by key. Ties keep their input order.
//
//	rank      ascending rank
//	name      ascending, locale-aware
//	utilized  descending utilised amount
//	percent   descending utilisation percentage
func Sort(records []core.FundRecord, key core.SortKey) []core.FundRecord {
	sorted := slices.Clone(records)
	switch key {
	case core.SortByName:
		col := collate.New(language.English)
		slices.SortStableFunc(sorted, func(a, b core.FundRecord) int {
			return col.CompareString(a.Name, b.Name)
		})
	case core.SortByUtilized:
		slices.SortStableFunc(sorted, func(a, b core.FundRecord) int {
			return cmp.Compare(b.Utilised.Crores, a.Utilised.Crores)
		})
	case core.SortByPercent:
		slices.SortStableFunc(sorted, func(a, b core.FundRecord) int {
			return cmp.Compare(b.Percent.Value, a.Percent.Value)
		})
	default:
		slices.SortStableFunc(sorted, func(a, b core.FundRecord) int {
			return cmp.Compare(a.Rank, b.Rank)
		})
	}
	return sorted
}
