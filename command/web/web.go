package web

import (
	"bufio"
	"encoding/csv"
	"errors"
	"flag"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	cfgloader "catddo-stats/connectors/config"
	ccsv "catddo-stats/connectors/csv"

	"github.com/labstack/echo/v4"
)

// Run starts a small Echo web server exposing the artifacts written by
// calculate as a read-only dashboard.
//
// Usage:
//
//	catddo-stats web [-addr :8080] [-out ./out]
//
// Endpoints:
//
//	GET /api/summary                 -> <out>/tables/summary.csv
//	GET /api/disbursements           -> <out>/tables/disbursements_by_fy.csv
//	GET /api/approvals/region        -> <out>/tables/approvals_by_fy_region.csv
//	GET /api/approvals/status        -> <out>/tables/approvals_by_region_status.csv
//	GET /api/approvals/type          -> <out>/tables/approvals_by_fy_type.csv
//	GET /api/undisbursed/region      -> <out>/tables/undisbursed_by_region.csv
//	GET /api/cobenefits              -> <out>/tables/cobenefits.csv
//	GET /api/text                    -> <out>/text.txt, one entry per line
//	GET /charts/*                    -> <out>/charts
//	GET /dashboard.xlsx              -> <out>/dashboard.xlsx
func Run(args []string) error {
	cfg, err := cfgloader.LoadDefault()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "http listen address (host:port)")
	outDir := fs.String("out", cfg.Output.Dir, "directory written by the calculate command")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfgloader.SetupLogging(cfg)
	return NewServer(*outDir).Start(*addr)
}

// NewServer builds the Echo instance serving outDir.
func NewServer(outDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	tables := filepath.Join(outDir, "tables")

	// Helper to register a GET endpoint serving a specific CSV file
	serveCSV := func(route string, filename string) {
		e.GET(route, func(c echo.Context) error {
			path := filepath.Join(tables, filename)
			rows, err := readCSV(path)
			if err != nil {
				return fileError(c, path, err)
			}
			return c.JSON(http.StatusOK, rows)
		})
	}

	serveCSV("/api/summary", ccsv.SummaryFile)
	serveCSV("/api/disbursements", ccsv.DisbursementsFile)
	serveCSV("/api/approvals/region", ccsv.YearRegionFile)
	serveCSV("/api/approvals/status", ccsv.RegionStatusFile)
	serveCSV("/api/approvals/type", ccsv.YearTypeFile)
	serveCSV("/api/undisbursed/region", ccsv.RegionBalancesFile)
	serveCSV("/api/cobenefits", ccsv.CoBenefitsFile)

	e.GET("/api/text", func(c echo.Context) error {
		path := filepath.Join(outDir, "text.txt")
		lines, err := readLines(path)
		if err != nil {
			return fileError(c, path, err)
		}
		return c.JSON(http.StatusOK, map[string]any{"lines": lines})
	})

	e.Static("/charts", filepath.Join(outDir, "charts"))
	e.GET("/dashboard.xlsx", func(c echo.Context) error {
		return c.File(filepath.Join(outDir, "dashboard.xlsx"))
	})
	return e
}

func fileError(c echo.Context, path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return c.JSON(http.StatusNotFound, map[string]any{
			"error":   "file not found",
			"path":    path,
			"message": "run calculate first",
		})
	}
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"error":   err.Error(),
		"path":    path,
		"message": "failed to read file",
	})
}

// readCSV loads a CSV file and returns a slice of objects keyed by headers.
// Values are kept as strings to avoid lossy or incorrect type coercion.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Read all rows; CSVs are expected to be small.
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []map[string]string{}, nil
	}

	headers := records[0]
	res := make([]map[string]string, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row := records[i]
		if len(row) == 0 {
			continue
		}
		obj := make(map[string]string, len(headers))
		for j := 0; j < len(headers) && j < len(row); j++ {
			obj[headers[j]] = row[j]
		}
		res = append(res, obj)
	}
	return res, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines := []string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if l := strings.TrimRight(sc.Text(), " "); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, sc.Err()
}
