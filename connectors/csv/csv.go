package csv

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"catddo-stats/domain/catddo"
)

// Table file names written under <out>/tables.
const (
	DisbursementsFile  = "disbursements_by_fy.csv"
	YearRegionFile     = "approvals_by_fy_region.csv"
	RegionStatusFile   = "approvals_by_region_status.csv"
	YearTypeFile       = "approvals_by_fy_type.csv"
	SummaryFile        = "summary.csv"
	CoBenefitsFile     = "cobenefits.csv"
	RegionBalancesFile = "undisbursed_by_region.csv"
)

// WriteAllCSVs writes every aggregate table of the report into dir.
func WriteAllCSVs(dir string, r *catddo.Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := WriteDisbursementsCSV(filepath.Join(dir, DisbursementsFile), r.Disbursements); err != nil {
		return err
	}
	if err := WriteCrossTabCSV(filepath.Join(dir, YearRegionFile), r.ByYearRegion); err != nil {
		return err
	}
	if err := WriteCrossTabCSV(filepath.Join(dir, RegionStatusFile), r.ByRegionStatus); err != nil {
		return err
	}
	if err := WriteCrossTabCSV(filepath.Join(dir, YearTypeFile), r.ByYearType); err != nil {
		return err
	}
	if err := WriteSummaryCSV(filepath.Join(dir, SummaryFile), r.Summary); err != nil {
		return err
	}
	if err := WriteRegionBalancesCSV(filepath.Join(dir, RegionBalancesFile), r.Regions); err != nil {
		return err
	}
	return WriteCoBenefitsCSV(filepath.Join(dir, CoBenefitsFile), r.CoBenefits)
}

func writeRows(path string, header []string, rows [][]string) (err error) {
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
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return w.Error()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func WriteDisbursementsCSV(path string, s catddo.DisbursementSeries) error {
	rows := make([][]string, 0, len(s.Columns))
	for i, c := range s.Columns {
		rows = append(rows, []string{c.Label, formatFloat(s.IBRD[i]), formatFloat(s.IDA[i]), formatFloat(s.Total[i])})
	}
	return writeRows(path, []string{"fiscal_year", "ibrd", "ida", "total"}, rows)
}

func WriteCrossTabCSV(path string, ct catddo.CrossTab) error {
	header := append([]string{ct.RowName}, ct.Cols...)
	header = append(header, "Total")
	totals := ct.RowTotals()
	rows := make([][]string, 0, len(ct.Rows))
	for i, name := range ct.Rows {
		row := []string{name}
		for _, n := range ct.Counts[i] {
			row = append(row, strconv.Itoa(n))
		}
		row = append(row, strconv.Itoa(totals[i]))
		rows = append(rows, row)
	}
	return writeRows(path, header, rows)
}

func WriteSummaryCSV(path string, t catddo.SummaryTable) error {
	rows := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rows = append(rows, []string{r.Label,
			strconv.FormatFloat(r.Disbursed, 'f', 1, 64),
			strconv.FormatFloat(r.Undisbursed, 'f', 1, 64),
			strconv.FormatFloat(r.Pipeline, 'f', 1, 64)})
	}
	return writeRows(path, []string{"source", "disbursed_musd", "undisbursed_musd", "pipeline_musd"}, rows)
}

func WriteRegionBalancesCSV(path string, regions []catddo.RegionAmount) error {
	rows := make([][]string, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []string{r.Region,
			strconv.FormatFloat(catddo.Round1(r.Amount/1e6), 'f', 1, 64),
			strconv.FormatFloat(catddo.Round1(r.Share), 'f', 1, 64)})
	}
	return writeRows(path, []string{"region", "undisbursed_musd", "share_pct"}, rows)
}

func WriteCoBenefitsCSV(path string, cbs []catddo.CoBenefit) error {
	rows := make([][]string, 0, len(cbs))
	for _, c := range cbs {
		rows = append(rows, []string{c.ProjectID, c.Country, c.FY, string(c.Type),
			strconv.FormatFloat(c.AdaptationPct, 'f', 1, 64),
			strconv.FormatFloat(c.MitigationPct, 'f', 1, 64),
			strconv.FormatFloat(c.TotalPct, 'f', 1, 64)})
	}
	return writeRows(path, []string{"project_id", "country", "fy", "type", "adaptation_pct", "mitigation_pct", "total_pct"}, rows)
}
