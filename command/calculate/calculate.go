package calculate

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"catddo-stats/connectors/chart"
	cfgloader "catddo-stats/connectors/config"
	ccsv "catddo-stats/connectors/csv"
	"catddo-stats/connectors/excel"
	"catddo-stats/domain/catddo"
	"catddo-stats/domain/config"
)

// Output layout under the output directory.
const (
	ChartsDir    = "charts"
	TablesDir    = "tables"
	TextFile     = "text.txt"
	WorkbookFile = "dashboard.xlsx"
)

// Run executes the calculate command: load, prepare, aggregate and write
// every dashboard artifact.
func Run(args []string) error {
	cfg, err := cfgloader.LoadDefault()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("calculate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dataDir := fs.String("data", cfg.Data.Dir, "directory containing the portfolio, metadata and co-benefit CSVs")
	outDir := fs.String("out", cfg.Output.Dir, "directory receiving charts, tables, text and workbook")
	charts := fs.Bool("charts", cfg.Output.Charts, "render chart images")
	workbook := fs.Bool("workbook", cfg.Output.Workbook, "write the dashboard workbook")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("calculate: unexpected arguments %v", fs.Args())
	}
	cfg.Data.Dir = *dataDir
	cfg.Output.Dir = *outDir
	cfg.Output.Charts = *charts
	cfg.Output.Workbook = *workbook
	cfgloader.SetupLogging(cfg)

	slog.Info("calculate.start", "data", cfg.Data.Dir, "out", cfg.Output.Dir)
	rep, err := Build(cfg)
	if err != nil {
		slog.Error("calculate.build.error", "error", err)
		return err
	}
	if err := Write(cfg, rep, os.Stdout); err != nil {
		slog.Error("calculate.write.error", "error", err)
		return err
	}
	slog.Info("calculate.done", "operations", len(rep.Portfolio.Operations), "cobenefits", len(rep.CoBenefits))
	return nil
}

// Build reads the inputs of cfg and computes the report.
func Build(cfg *config.Config) (*catddo.Report, error) {
	in, err := ccsv.ReadInputs(cfg.Data, cfg.Metadata)
	if err != nil {
		return nil, err
	}
	p, err := catddo.PreparePortfolio(in.Portfolio, in.Metadata, cfg.Portfolio)
	if err != nil {
		return nil, err
	}
	cbs, err := catddo.PrepareCoBenefits(in.CoBenefits, p, cfg.CoBenefits)
	if err != nil {
		return nil, err
	}
	slog.Info("calculate.prepared", "operations", len(p.Operations), "fy_columns", len(p.Display), "cobenefits", len(cbs))

	firstFY := 0
	if cfg.Report.FirstFY != "" {
		if firstFY, err = catddo.ParseFiscalYear(cfg.Report.FirstFY, cfg.Portfolio.FYLabelPrefix); err != nil {
			return nil, fmt.Errorf("report.first_fy: %w", err)
		}
	}
	return catddo.BuildReport(p, cbs, firstFY)
}

// Write prints the text to stdout and writes tables, text, charts and workbook.
func Write(cfg *config.Config, rep *catddo.Report, stdout io.Writer) error {
	text := rep.Text()
	if _, err := io.WriteString(stdout, text); err != nil {
		return err
	}
	out := cfg.Output.Dir
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(out, TextFile), []byte(text), 0o644); err != nil {
		return err
	}
	if err := ccsv.WriteAllCSVs(filepath.Join(out, TablesDir), rep); err != nil {
		return err
	}
	slog.Info("calculate.tables.done", "dir", filepath.Join(out, TablesDir))

	if cfg.Output.Charts {
		files, err := chart.New(filepath.Join(out, ChartsDir), cfg.Output.ChartFormat).RenderAll(rep)
		if err != nil {
			return err
		}
		slog.Info("calculate.charts.done", "count", len(files))
	}
	if cfg.Output.Workbook {
		if err := excel.WriteDashboard(filepath.Join(out, WorkbookFile), rep); err != nil {
			return err
		}
		slog.Info("calculate.workbook.done", "path", filepath.Join(out, WorkbookFile))
	}
	return nil
}
