// Command mpladsctl maintains MPLADS snapshots and inspects the dataset
// from the terminal.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mplads/internal/backend"
	"mplads/internal/cli"
	"mplads/internal/config"
	"mplads/internal/log"
)

// app carries state shared by all subcommands.
type app struct {
	out    io.Writer
	errOut io.Writer

	envFile  string
	backend  string
	dataDir  string
	dbPath   string
	xlsxPath string
	logLevel string

	cfg    *config.Config
	logger *log.Logger
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "mpladsctl",
		Short: "Inspect and maintain MPLADS fund data",
		Long: `mpladsctl reads the same backends as the mplads server.

Available subcommands:
  import       - Copy a source into the SQLite snapshot
  snapshot     - Show the last SQLite import
  summary      - Print fund utilisation totals and the member table
  profile      - Print a member's spending breakdown
  export       - Write the dataset to an Excel workbook
  sheets-login - Save a Google user token for the sheets backend`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.envFile, "env-file", "", "Load environment from this file (default: .env if present)")
	flags.StringVar(&a.backend, "backend", "", "Data backend: "+strings.Join(backend.GetBackendTypeStrings(), ", ")+" (overrides DATA_BACKEND)")
	flags.StringVar(&a.dataDir, "data-dir", "", "JSON data directory for the file backend (overrides DATA_DIR)")
	flags.StringVar(&a.dbPath, "db", "", "SQLite snapshot path (overrides SQLITE_DB_PATH)")
	flags.StringVar(&a.xlsxPath, "xlsx", "", "Excel workbook path (overrides XLSX_PATH)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides LOG_LEVEL)")

	root.AddCommand(
		newImportCmd(a),
		newSnapshotCmd(a),
		newSummaryCmd(a),
		newProfileCmd(a),
		newExportCmd(a),
		newSheetsLoginCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and validates the
// result once for every subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var envFiles []string
	if a.envFile != "" {
		envFiles = append(envFiles, a.envFile)
	}
	config.LoadEnvFile(envFiles...)
	cfg := config.Load()

	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.DataBackend = a.backend
	}
	if flags.Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if flags.Changed("db") {
		cfg.SQLiteDBPath = a.dbPath
	}
	if flags.Changed("xlsx") {
		cfg.XLSXPath = a.xlsxPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg.LogLevel, a.errOut, log.ComponentCLI)
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
