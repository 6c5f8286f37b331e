package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mplads/internal/core"
	"mplads/internal/sources/xlsx"
)

func newExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dataset to an Excel workbook",
		Long: `Read the raw tables from the configured backend and write them to a
workbook that the xlsx backend can read back. Sheet names follow
GOOGLE_LOK_SABHA_SHEET, GOOGLE_RAJYA_SABHA_SHEET and GOOGLE_SPENDING_SHEET.`,
		Example: `  mpladsctl export --out ./data/mplads.xlsx
  mpladsctl export --backend sqlite --db ./data/mplads.db --out snapshot.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				out = a.cfg.XLSXPath
			}
			res, err := openBackend(cmd.Context(), a)
			if err != nil {
				return err
			}
			defer res.Close()

			var (
				lok, rajya []core.RawFundRecord
				spending   map[string]core.RawSpendingProfile
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() (err error) {
				lok, err = res.Backend.LoadFundRecords(ctx, core.LokSabha)
				return err
			})
			g.Go(func() (err error) {
				rajya, err = res.Backend.LoadFundRecords(ctx, core.RajyaSabha)
				return err
			})
			g.Go(func() (err error) {
				spending, err = res.Backend.LoadSpending(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return fmt.Errorf("read %s: %w", res.Name, err)
			}

			err = xlsx.WriteWorkbook(out, xlsx.Config{
				LokSabhaSheet:   a.cfg.GoogleLokSabhaSheet,
				RajyaSabhaSheet: a.cfg.GoogleRajyaSabhaSheet,
				SpendingSheet:   a.cfg.GoogleSpendingSheet,
			}, map[core.House][]core.RawFundRecord{
				core.LokSabha:   lok,
				core.RajyaSabha: rajya,
			}, spending)
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.printf("Exported %d Lok Sabha rows, %d Rajya Sabha rows and %d spending profiles to %s\n",
				len(lok), len(rajya), len(spending), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output workbook path (default: XLSX_PATH)")
	return cmd
}
