package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mplads/assets"
	"mplads/internal/config"
	"mplads/internal/sources"
	"mplads/internal/sources/file"
	"mplads/internal/storage"
)

func newImportCmd(a *app) *cobra.Command {
	var from string
	var embedded bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a source into the SQLite snapshot",
		Long: `Load both fund tables and the spending mapping and replace the
contents of the SQLite snapshot with them in one transaction.

The source is, in order of precedence: --from <dir> (JSON files),
--embedded (the bundled sample), or the configured backend.`,
		Example: `  mpladsctl import --from ./json --db ./data/mplads.db
  mpladsctl import --backend sheets --db ./data/mplads.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var (
				src  sources.Source
				name string
			)
			switch {
			case from != "":
				dir, err := file.NewDir(from)
				if err != nil {
					return err
				}
				src, name = dir, from
			case embedded:
				src, name = file.New(assets.Data()), "embedded"
			default:
				if a.cfg.DataBackend == config.BackendSQLite {
					return fmt.Errorf("the sqlite backend cannot import into itself; use --from, --embedded or --backend")
				}
				res, err := openBackend(ctx, a)
				if err != nil {
					return err
				}
				defer res.Close()
				src, name = res.Backend, res.Name
			}

			repo, err := storage.NewSQLiteRepository(a.cfg.SQLiteDBPath, a.logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			snap, err := repo.Import(ctx, src, name)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			abs, _ := filepath.Abs(a.cfg.SQLiteDBPath)
			a.printf("Imported %d fund rows and %d spending profiles from %s into %s\n",
				snap.FundRows, snap.Profiles, snap.Source, abs)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Directory holding lok_sabha_mps.json, rajya_sabha_mps.json and MPFUND.json")
	cmd.Flags().BoolVar(&embedded, "embedded", false, "Import the bundled sample data")
	cmd.MarkFlagsMutuallyExclusive("from", "embedded")
	return cmd
}

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Show the last SQLite import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := storage.NewSQLiteRepository(a.cfg.SQLiteDBPath, a.logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			snap, err := repo.Snapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("snapshot %s: %w", a.cfg.SQLiteDBPath, err)
			}
			a.printf("Source:      %s\nImported at: %s\nFund rows:   %d\nProfiles:    %d\n",
				snap.Source, snap.ImportedAt.Format("2006-01-02 15:04:05 MST"), snap.FundRows, snap.Profiles)
			return nil
		},
	}
}
