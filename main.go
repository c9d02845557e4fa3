package main

import (
	cmdcalculate "catddo-stats/command/calculate"
	cmdimport "catddo-stats/command/import"
	cmdweb "catddo-stats/command/web"
	"fmt"
	"log/slog"
	"os"
)

// Cat DDO portfolio dashboard.
// Usage:
//   catddo-stats import -xlsx Portfolio.xlsx [-data ./data]
//   catddo-stats calculate [-data ./data] [-out ./out] [-charts=false] [-workbook=false]
//   catddo-stats web [-addr :8080] [-out ./out]
// Notes:
// - calculate reads Cat_DDO_Portfolio.csv, Cat_DDO_Metadata.csv and Climate_cobenefits.csv,
//   prints the summary table and sentences, and writes charts, tables, text and a workbook.
// - File and column names come from the YAML file at CONFIG_PATH (default ./config.yml);
//   CATDDO_DATA_DIR, CATDDO_OUTPUT_DIR and CATDDO_LOG_LEVEL override it.

func main() {
	args := os.Args
	// Initialize slog logger; commands replace it once the config is loaded
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(h))

	if len(args) > 1 {
		sub := args[1]
		rest := append([]string{}, args[2:]...)
		switch sub {
		case "import":
			if err := cmdimport.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "calculate":
			if err := cmdcalculate.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		case "web":
			if err := cmdweb.Run(rest); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
	}
	fmt.Fprintln(os.Stderr, "usage: catddo-stats import -xlsx <workbook> [-data <dir>] | calculate [-data <dir>] [-out <dir>] | web [-addr :8080] [-out <dir>]\nENV: set CONFIG_PATH to point to a YAML config file (default ./config.yml)")
	os.Exit(2)
}
