// Package excel moves dashboard data in and out of Excel workbooks.
package excel

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"catddo-stats/domain/catddo"
	"catddo-stats/domain/config"

	"github.com/xuri/excelize/v2"
)

// ImportWorkbook extracts the portfolio, metadata and co-benefit sheets of
// an Excel export into the CSV files named by data.
func ImportWorkbook(path string, sheets config.ImportConfig, data config.DataConfig) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, catddo.NewMissingFileError(path, err)
		}
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(data.Dir, 0o755); err != nil {
		return nil, err
	}
	var written []string
	for _, s := range []struct{ sheet, file string }{
		{sheets.PortfolioSheet, data.PortfolioFile},
		{sheets.MetadataSheet, data.MetadataFile},
		{sheets.CoBenefitsSheet, data.CoBenefitsFile},
	} {
		rows, err := f.GetRows(s.sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %q: %w", s.sheet, err)
		}
		if len(rows) == 0 {
			return nil, catddo.NewSchemaError("sheet %q is empty", s.sheet)
		}
		padded, err := padRows(s.sheet, rows)
		if err != nil {
			return nil, err
		}
		out := filepath.Join(data.Dir, s.file)
		if err := writeCSV(out, padded); err != nil {
			return nil, err
		}
		slog.Info("import.sheet.done", "sheet", s.sheet, "rows", len(rows)-1, "output", out)
		written = append(written, out)
	}
	return written, nil
}

// padRows widens every row to the header width; GetRows drops trailing
// empty cells. A row wider than the header is a schema error.
func padRows(sheet string, rows [][]string) ([][]string, error) {
	width := len(rows[0])
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		if len(r) == 0 || strings.TrimSpace(strings.Join(r, "")) == "" {
			continue
		}
		if len(r) > width {
			if strings.TrimSpace(strings.Join(r[width:], "")) != "" {
				return nil, catddo.NewSchemaError("sheet %q row %d has %d cells, header has %d", sheet, i+1, len(r), width)
			}
			r = r[:width]
		}
		if len(r) < width {
			r = append(r, make([]string, width-len(r))...)
		}
		out = append(out, r)
	}
	return out, nil
}

func writeCSV(path string, rows [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

// Sheet names of the dashboard workbook.
const (
	SummarySheet       = "Summary"
	TextSheet          = "Text"
	DisbursementsSheet = "Disbursements"
	YearRegionSheet    = "FY x Region"
	RegionStatusSheet  = "Region x Status"
	YearTypeSheet      = "FY x Type"
	RegionsSheet       = "Undisbursed by Region"
	CoBenefitsSheet    = "Climate co-benefits"
)

// WriteDashboard saves every aggregate of the report as one workbook.
func WriteDashboard(path string, r *catddo.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	w := &workbook{f: f, header: header}

	summary := [][]any{{"", "Disbursed", "Undisbursed", "Pipeline"}}
	for _, row := range r.Summary.Rows {
		summary = append(summary, []any{row.Label, row.Disbursed, row.Undisbursed, row.Pipeline})
	}
	w.sheet(SummarySheet, summary)

	text := [][]any{{"Text"}}
	for _, s := range append(append([]string{}, r.Sentences...), r.CoBenefitSentences...) {
		text = append(text, []any{s})
	}
	w.sheet(TextSheet, text)

	disb := [][]any{{"Fiscal Year", "IBRD", "IDA", "Total"}}
	for i, c := range r.Disbursements.Columns {
		disb = append(disb, []any{c.Label, r.Disbursements.IBRD[i], r.Disbursements.IDA[i], r.Disbursements.Total[i]})
	}
	w.sheet(DisbursementsSheet, disb)

	w.sheet(YearRegionSheet, crossTabRows(r.ByYearRegion))
	w.sheet(RegionStatusSheet, crossTabRows(r.ByRegionStatus))
	w.sheet(YearTypeSheet, crossTabRows(r.ByYearType))

	regions := [][]any{{"Region", "Undisbursed (US$ M)", "Share (%)"}}
	for _, reg := range r.Regions {
		regions = append(regions, []any{reg.Region, catddo.Round1(reg.Amount / 1e6), catddo.Round1(reg.Share)})
	}
	w.sheet(RegionsSheet, regions)

	cbs := [][]any{{"Project ID", "Country", "FY", "Type", "Adaptation %", "Mitigation %", "Total %"}}
	for _, c := range r.CoBenefits {
		cbs = append(cbs, []any{c.ProjectID, c.Country, c.FY, string(c.Type),
			catddo.Round1(c.AdaptationPct), catddo.Round1(c.MitigationPct), catddo.Round1(c.TotalPct)})
	}
	w.sheet(CoBenefitsSheet, cbs)

	if w.err != nil {
		return w.err
	}
	// NewFile starts with Sheet1; every sheet above is added after it.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func crossTabRows(ct catddo.CrossTab) [][]any {
	head := []any{ct.RowName}
	for _, c := range ct.Cols {
		head = append(head, c)
	}
	rows := [][]any{append(head, "Total")}
	totals := ct.RowTotals()
	for i, name := range ct.Rows {
		row := []any{name}
		for _, n := range ct.Counts[i] {
			row = append(row, n)
		}
		rows = append(rows, append(row, totals[i]))
	}
	return rows
}

// workbook keeps the first error so sheet writes can be chained.
type workbook struct {
	f      *excelize.File
	header int
	err    error
}

func (w *workbook) sheet(name string, rows [][]any) {
	if w.err != nil {
		return
	}
	if _, err := w.f.NewSheet(name); err != nil {
		w.err = err
		return
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(name, cell, &row); err != nil {
			w.err = err
			return
		}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return
	}
	last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err := w.f.SetCellStyle(name, "A1", last, w.header); err != nil {
		w.err = err
		return
	}
	lastCol, _ := excelize.ColumnNumberToName(len(rows[0]))
	w.err = w.f.SetColWidth(name, "A", lastCol, 18)
}
