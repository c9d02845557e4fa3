package cmdimport

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	cfgloader "catddo-stats/connectors/config"
	"catddo-stats/connectors/excel"
)

// Run executes the import subcommand: it extracts the portfolio, metadata and
// co-benefit sheets of an Excel export into the CSV data directory.
func Run(args []string) error {
	cfg, err := cfgloader.LoadDefault()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	xlsx := fs.String("xlsx", "", "Excel workbook holding the portfolio, metadata and co-benefit sheets")
	dataDir := fs.String("data", cfg.Data.Dir, "directory receiving the CSV files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfgloader.SetupLogging(cfg)
	if *xlsx == "" {
		fmt.Fprintln(os.Stderr, "-xlsx is required.")
		slog.Error("import.validation.error", "reason", "missing xlsx")
		return fmt.Errorf("missing required -xlsx")
	}
	cfg.Data.Dir = *dataDir

	slog.Info("import.start", "xlsx", *xlsx, "data", cfg.Data.Dir)
	files, err := excel.ImportWorkbook(*xlsx, cfg.Import, cfg.Data)
	if err != nil {
		slog.Error("import.error", "error", err)
		return err
	}
	slog.Info("import.done", "files", len(files))
	return nil
}
