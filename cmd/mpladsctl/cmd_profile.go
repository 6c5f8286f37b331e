package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mplads/internal/analytics"
	"mplads/internal/core"
)

func newProfileCmd(a *app) *cobra.Command {
	var house string

	cmd := &cobra.Command{
		Use:   "profile [name]",
		Short: "Print a member's spending breakdown",
		Long: `Without arguments, list the members that have spending data,
largest total first. With a name, print that member's categories.

The name is the full mapping key, tenure suffix included, e.g.
"Dr. John Brittas (2021-27)".`,
		Example: `  mpladsctl profile --house rajya
  mpladsctl profile "Dr. John Brittas (2021-27)"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			res, err := openBackend(ctx, a)
			if err != nil {
				return err
			}
			defer res.Close()

			svc := analytics.NewService(res.Backend, a.logger)

			if len(args) == 0 {
				tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tHOUSE\tTOTAL")
				for _, e := range svc.ListByHouse(ctx, core.ParseHouseFilter(house)) {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Name, e.House, analytics.FormatCrores(e.TotalExpenditure))
				}
				return tw.Flush()
			}

			p, ok := svc.GetBreakdown(ctx, args[0])
			if !ok {
				return fmt.Errorf("no spending data for %q", args[0])
			}
			a.printf("%s (%s)\nTotal expenditure: %s\n\n", p.DisplayName, p.House, analytics.FormatCrores(p.TotalExpenditure))

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CATEGORY\tAMOUNT\tSHARE")
			for _, e := range p.Breakdown {
				fmt.Fprintf(tw, "%s\t%s\t%s%%\n", e.ShortLabel, analytics.FormatLakhs(e.Value), e.Percentage)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&house, "house", "all", "House filter for the member list: all, lok or rajya")
	return cmd
}
