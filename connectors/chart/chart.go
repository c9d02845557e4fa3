// Package chart renders the dashboard figures with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"catddo-stats/domain/catddo"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Chart file names, without extension.
const (
	DisbursementsChart = "disbursements_by_fy"
	YearRegionChart    = "approvals_by_fy_region"
	RegionStatusChart  = "approvals_by_region_status"
	YearTypeChart      = "approvals_by_fy_type"
	StandaloneCCBChart = "cobenefits_standalone"
	MixedCCBChart      = "cobenefits_mixed"
)

// Series is one labelled layer of a stacked bar chart.
type Series struct {
	Name   string
	Values []float64
}

// Renderer writes charts into Dir using Format (png or svg) as file extension.
type Renderer struct {
	Dir    string
	Format string
}

func New(dir, format string) *Renderer {
	if format == "" {
		format = "png"
	}
	return &Renderer{Dir: dir, Format: format}
}

func (r *Renderer) path(name string) string {
	return filepath.Join(r.Dir, name+"."+r.Format)
}

// RenderAll draws every figure of the report and returns the files written.
func (r *Renderer) RenderAll(rep *catddo.Report) ([]string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, err
	}
	var files []string
	add := func(path string, err error) error {
		if err != nil {
			return err
		}
		if path != "" {
			files = append(files, path)
		}
		return nil
	}
	if err := add(r.Disbursements(rep.Disbursements)); err != nil {
		return nil, err
	}
	if err := add(r.Counts(YearRegionChart, "Number of Cat DDOs approved by Fiscal Year and Region", "Fiscal Year", rep.ByYearRegion)); err != nil {
		return nil, err
	}
	if err := add(r.Counts(RegionStatusChart, "Number of Cat DDOs by Status and Region", "", rep.ByRegionStatus)); err != nil {
		return nil, err
	}
	if err := add(r.Counts(YearTypeChart, "Number of Cat DDOs by type of operation", "Fiscal Year", rep.ByYearType)); err != nil {
		return nil, err
	}
	if err := add(r.CoBenefits(StandaloneCCBChart, "Standalone Cat DDOs", catddo.CoBenefitsOfType(rep.CoBenefits, catddo.TypeStandalone))); err != nil {
		return nil, err
	}
	if err := add(r.CoBenefits(MixedCCBChart, "Mixed Cat DDOs", catddo.CoBenefitsOfType(rep.CoBenefits, catddo.TypeMixed))); err != nil {
		return nil, err
	}
	return files, nil
}

// Disbursements draws yearly disbursements stacked by source, labelling
// each non-zero total in US$ millions.
func (r *Renderer) Disbursements(s catddo.DisbursementSeries) (string, error) {
	if len(s.Columns) == 0 {
		slog.Warn("chart.skip", "chart", DisbursementsChart, "reason", "no fiscal years")
		return "", nil
	}
	p := newPlot("Cat DDO Disbursements by Fiscal Year and Source", "Fiscal Year", "Disbursement Amount")
	if err := stack(p, []Series{
		{Name: string(catddo.SourceIBRD), Values: s.IBRD},
		{Name: string(catddo.SourceIDA), Values: s.IDA},
	}, vg.Points(20), false); err != nil {
		return "", err
	}
	p.NominalX(s.Labels()...)
	p.Y.Tick.Marker = plot.TickerFunc(millionsTicks)

	var xys plotter.XYs
	var labels []string
	for i, total := range s.Total {
		if total > 0 {
			xys = append(xys, plotter.XY{X: float64(i), Y: total})
			labels = append(labels, MillionsLabel(total))
		}
	}
	if err := addLabels(p, xys, labels); err != nil {
		return "", err
	}
	return r.save(p, DisbursementsChart, 11*vg.Inch, 5*vg.Inch)
}

// Counts draws a cross-tab as bars stacked by column key.
func (r *Renderer) Counts(name, title, xLabel string, ct catddo.CrossTab) (string, error) {
	if len(ct.Rows) == 0 || len(ct.Cols) == 0 {
		slog.Warn("chart.skip", "chart", name, "reason", "empty cross-tab")
		return "", nil
	}
	p := newPlot(title, xLabel, "Number of Cat DDOs")
	series := make([]Series, 0, len(ct.Cols))
	for _, c := range ct.Cols {
		series = append(series, Series{Name: c, Values: ct.Column(c)})
	}
	if err := stack(p, series, vg.Points(16), false); err != nil {
		return "", err
	}
	p.NominalX(ct.Rows...)
	p.Y.Tick.Marker = plot.TickerFunc(integerTicks)
	return r.save(p, name, 8*vg.Inch, 4*vg.Inch)
}

// CoBenefits draws adaptation and mitigation percentages per operation as
// horizontal stacked bars, with the average total as a dashed line.
func (r *Renderer) CoBenefits(name, title string, cbs []catddo.CoBenefit) (string, error) {
	if len(cbs) == 0 {
		slog.Warn("chart.skip", "chart", name, "reason", "no assessed operations")
		return "", nil
	}
	mean, err := catddo.MeanTotalPct(cbs)
	if err != nil {
		return "", err
	}
	p := newPlot(title, "Climate co-benefits %", "")
	adaptation := make([]float64, len(cbs))
	mitigation := make([]float64, len(cbs))
	ids := make([]string, len(cbs))
	for i, c := range cbs {
		adaptation[i], mitigation[i], ids[i] = c.AdaptationPct, c.MitigationPct, c.FigureID()
	}
	if err := stack(p, []Series{
		{Name: "Adaptation co-benefits", Values: adaptation},
		{Name: "Mitigation co-benefits", Values: mitigation},
	}, vg.Points(12), true); err != nil {
		return "", err
	}
	p.NominalY(ids...)
	p.X.Tick.Marker = plot.TickerFunc(percentTicks)

	line, err := plotter.NewLine(plotter.XYs{{X: mean, Y: -0.5}, {X: mean, Y: float64(len(cbs)) - 0.5}})
	if err != nil {
		return "", err
	}
	line.Color = color.RGBA{G: 128, A: 128}
	line.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(line)
	p.Legend.Add("Average of total co-benefits", line)

	height := vg.Length(math.Max(4, 0.35*float64(len(cbs))+1.5)) * vg.Inch
	return r.save(p, name, 5*vg.Inch, height)
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	return p
}

// stack adds one bar chart per series, each stacked on the previous one.
func stack(p *plot.Plot, series []Series, width vg.Length, horizontal bool) error {
	grid := plotter.NewGrid()
	if horizontal {
		grid.Horizontal.Color = nil
	} else {
		grid.Vertical.Color = nil
	}
	p.Add(grid)

	var prev *plotter.BarChart
	for i, s := range series {
		b, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return fmt.Errorf("series %s: %w", s.Name, err)
		}
		b.Color = plotutil.Color(i)
		b.LineStyle.Width = vg.Length(0)
		b.Horizontal = horizontal
		if prev != nil {
			b.StackOn(prev)
		}
		p.Add(b)
		p.Legend.Add(s.Name, b)
		prev = b
	}
	return nil
}

func addLabels(p *plot.Plot, xys plotter.XYs, labels []string) error {
	if len(xys) == 0 {
		return nil
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	for i := range l.TextStyle {
		l.TextStyle[i].XAlign = draw.XCenter
		l.TextStyle[i].Font.Size = vg.Points(9)
	}
	p.Add(l)
	return nil
}

func (r *Renderer) save(p *plot.Plot, name string, w, h vg.Length) (string, error) {
	path := r.path(name)
	if err := p.Save(w, h, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", path, err)
	}
	slog.Debug("chart.saved", "path", path)
	return path, nil
}

// MillionsLabel formats a US$ amount as whole millions, e.g. $250M.
func MillionsLabel(v float64) string {
	return fmt.Sprintf("$%dM", int(v/1e6))
}

func millionsTicks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = MillionsLabel(ticks[i].Value)
		}
	}
	return ticks
}

func percentTicks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = fmt.Sprintf("%.0f%%", ticks[i].Value)
		}
	}
	return ticks
}

// integerTicks keeps only whole-number major ticks; counts have no fractions.
func integerTicks(min, max float64) []plot.Tick {
	var out []plot.Tick
	for _, t := range (plot.DefaultTicks{}).Ticks(min, max) {
		if t.Label == "" {
			out = append(out, t)
			continue
		}
		if t.Value == math.Trunc(t.Value) {
			out = append(out, plot.Tick{Value: t.Value, Label: fmt.Sprintf("%d", int(t.Value))})
		}
	}
	return out
}
