package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mplads/internal/backend"
	"mplads/internal/cli"
	"mplads/internal/core"
	"mplads/internal/funds"
)

func openBackend(ctx context.Context, a *app) (*backend.BackendResult, error) {
	return cli.OpenBackend(ctx, a.cfg, a.logger)
}

func newSummaryCmd(a *app) *cobra.Command {
	var (
		house  string
		search string
		sortBy string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print fund utilisation totals and the member table",
		Example: `  mpladsctl summary --house rajya
  mpladsctl summary --q kerala --sort percent --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := openBackend(cmd.Context(), a)
			if err != nil {
				return err
			}
			defer res.Close()

			ds := funds.Load(cmd.Context(), res.Backend, a.logger)
			q := funds.Query{
				House:  core.ParseHouseFilter(house),
				Search: search,
				Sort:   core.ParseSortKey(sortBy),
			}
			result := ds.Query(q)
			overview := ds.Overview()

			a.printf("Source: %s\n\n", res.Name)
			printStats(a, "All members", overview.Stats)
			printStats(a, string(core.LokSabha), overview.Houses.Lok)
			printStats(a, string(core.RajyaSabha), overview.Houses.Rajya)
			u := overview.Utilization
			a.printf("Utilisation: mean %.1f%%, std dev %.1f, high %d, medium %d, low %d\n\n",
				u.Mean, u.StdDev,
				u.Levels[core.PerformanceHigh], u.Levels[core.PerformanceMedium], u.Levels[core.PerformanceLow])

			if q.House != core.HouseAll {
				printStats(a, "Selected house", result.Stats)
				a.printf("\n")
			}

			records := result.Records
			if limit > 0 && len(records) > limit {
				records = records[:limit]
			}
			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tNAME\tCONSTITUENCY\tPARTY\tHOUSE\tALLOCATED\tUTILISED\t%\tLEVEL")
			for _, r := range records {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.Rank, r.Name, r.Constituency, r.Party, r.House,
					core.FormatAmount(r.Allocated.Crores), core.FormatAmount(r.Utilised.Crores),
					core.FormatPercentage(r.Percent.Value), r.PerformanceLevel)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			a.printf("\n%d of %d members shown\n", len(records), len(result.Records))
			return nil
		},
	}
	cmd.Flags().StringVar(&house, "house", "all", "House filter: all, lok or rajya")
	cmd.Flags().StringVar(&search, "q", "", "Search name, constituency or party")
	cmd.Flags().StringVar(&sortBy, "sort", "rank", "Sort key: rank, name, utilized or percent")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many members (0 = all)")
	return cmd
}

func printStats(a *app, title string, s core.AggregateStats) {
	a.printf("%-14s %3d members  allocated %8.2f Cr  utilised %8.2f Cr  (%.1f%%)\n",
		title+":", s.TotalMPs, s.TotalAllocated, s.TotalUtilised, s.OverallPercent)
}
