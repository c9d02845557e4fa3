package catddo

import (
	"math"
	"sort"

	lo "github.com/samber/lo"
)

// Filter selects operations for an aggregate.
type Filter func(Operation) bool

// All keeps every prepared operation.
func All(Operation) bool { return true }

func StatusIn(statuses ...Status) Filter {
	return func(o Operation) bool { return lo.Contains(statuses, o.Status) }
}

func SourceIs(s Source) Filter {
	return func(o Operation) bool { return o.Source == s }
}

func TypeIs(t OperationType) Filter {
	return func(o Operation) bool { return o.Type == t }
}

// And combines filters; an operation must pass all of them.
func And(filters ...Filter) Filter {
	return func(o Operation) bool {
		for _, f := range filters {
			if !f(o) {
				return false
			}
		}
		return true
	}
}

var (
	approved = StatusIn(StatusActive, StatusClosed)
	active   = StatusIn(StatusActive)
	pipeline = StatusIn(StatusPipeline)
)

// Aggregator computes the grouped figures of the dashboard over a prepared portfolio.
type Aggregator struct {
	p *Portfolio
}

func NewAggregator(p *Portfolio) *Aggregator {
	return &Aggregator{p: p}
}

func (a *Aggregator) Select(f Filter) []Operation {
	return lo.Filter(a.p.Operations, func(o Operation, _ int) bool { return f(o) })
}

func (a *Aggregator) Sum(f Filter, field func(Operation) float64) float64 {
	return lo.SumBy(a.Select(f), field)
}

func (a *Aggregator) Count(f Filter) int {
	return lo.CountBy(a.p.Operations, func(o Operation) bool { return f(o) })
}

func (a *Aggregator) CountDistinct(f Filter, key func(Operation) string) int {
	return len(lo.Uniq(lo.Map(a.Select(f), func(o Operation, _ int) string { return key(o) })))
}

// DisbursementSeries holds yearly disbursements split by source over the
// displayed fiscal years. Total is IBRD + IDA pointwise.
type DisbursementSeries struct {
	Columns []FYColumn
	IBRD    []float64
	IDA     []float64
	Total   []float64
}

func (s DisbursementSeries) Labels() []string {
	return lo.Map(s.Columns, func(c FYColumn, _ int) string { return c.Label })
}

func (a *Aggregator) DisbursementsByYear() DisbursementSeries {
	n := len(a.p.Display)
	s := DisbursementSeries{
		Columns: a.p.Display,
		IBRD:    make([]float64, n),
		IDA:     make([]float64, n),
		Total:   make([]float64, n),
	}
	for _, o := range a.p.Operations {
		dst := s.IBRD
		if o.Source == SourceIDA {
			dst = s.IDA
		}
		// Display is a prefix of Columns, so indexes line up.
		for j := 0; j < n; j++ {
			dst[j] += o.Disbursements[j]
		}
	}
	for j := range s.Total {
		s.Total[j] = s.IBRD[j] + s.IDA[j]
	}
	return s
}

// CrossTab is a count table: Counts[i][j] operations have row key Rows[i]
// and column key Cols[j].
type CrossTab struct {
	RowName string
	ColName string
	Rows    []string
	Cols    []string
	Counts  [][]int
}

func (c CrossTab) Count(row, col string) int {
	i, j := lo.IndexOf(c.Rows, row), lo.IndexOf(c.Cols, col)
	if i < 0 || j < 0 {
		return 0
	}
	return c.Counts[i][j]
}

func (c CrossTab) RowTotals() []int {
	return lo.Map(c.Counts, func(r []int, _ int) int { return lo.Sum(r) })
}

func (c CrossTab) Total() int { return lo.Sum(c.RowTotals()) }

// Column returns the counts of one column key as floats, in row order.
func (c CrossTab) Column(col string) []float64 {
	j := lo.IndexOf(c.Cols, col)
	return lo.Map(c.Counts, func(r []int, _ int) float64 {
		if j < 0 {
			return 0
		}
		return float64(r[j])
	})
}

func crossTab(ops []Operation, rows []string, rowKey, colKey func(Operation) string) CrossTab {
	cols := lo.Uniq(lo.Map(ops, func(o Operation, _ int) string { return colKey(o) }))
	sort.Strings(cols)
	ct := CrossTab{Rows: rows, Cols: cols, Counts: make([][]int, len(rows))}
	for i := range ct.Counts {
		ct.Counts[i] = make([]int, len(cols))
	}
	for _, o := range ops {
		i, j := lo.IndexOf(rows, rowKey(o)), lo.IndexOf(cols, colKey(o))
		if i >= 0 {
			ct.Counts[i][j]++
		}
	}
	return ct
}

// YearRange lists the fiscal years from first to last inclusive.
func YearRange(first, last int) []int {
	if last < first {
		return nil
	}
	return lo.RangeFrom(first, last-first+1)
}

// yearRows are the fiscal-year row labels of an approval cross-tab: every
// year from firstFY (or the earliest approval, if earlier) to the latest
// approval, so that years without operations appear with zero counts.
func (a *Aggregator) yearRows(firstFY int) []string {
	if len(a.p.Operations) == 0 {
		return nil
	}
	years := lo.Map(a.p.Operations, func(o Operation, _ int) int { return o.FiscalYear })
	first, last := lo.Min(years), lo.Max(years)
	if firstFY > 0 && firstFY < first {
		first = firstFY
	}
	return lo.Map(YearRange(first, last), func(y int, _ int) string { return FYLabel(y) })
}

func (a *Aggregator) ApprovalsByYearAndRegion(firstFY int) CrossTab {
	ct := crossTab(a.p.Operations, a.yearRows(firstFY), Operation.FYLabel,
		func(o Operation) string { return o.Region })
	ct.RowName, ct.ColName = "Fiscal Year", "Region"
	return ct
}

func (a *Aggregator) ApprovalsByRegionAndStatus() CrossTab {
	regions := lo.Uniq(lo.Map(a.p.Operations, func(o Operation, _ int) string { return o.Region }))
	sort.Strings(regions)
	ct := crossTab(a.p.Operations, regions, func(o Operation) string { return o.Region },
		func(o Operation) string { return string(o.Status) })
	ct.RowName, ct.ColName = "Region", "Status"
	return ct
}

func (a *Aggregator) ApprovalsByYearAndType(firstFY int) CrossTab {
	ct := crossTab(a.p.Operations, a.yearRows(firstFY), Operation.FYLabel,
		func(o Operation) string { return string(o.Type) })
	ct.RowName, ct.ColName = "Fiscal Year", "Standalone/Mixed"
	return ct
}

// RegionAmount is a region's undisbursed balance and its share of the total, in percent.
type RegionAmount struct {
	Region string
	Amount float64
	Share  float64
}

// UndisbursedByRegion ranks regions by the undisbursed balance of active
// operations, largest first.
func (a *Aggregator) UndisbursedByRegion() ([]RegionAmount, error) {
	groups := lo.GroupBy(a.Select(active), func(o Operation) string { return o.Region })
	out := lo.MapToSlice(groups, func(region string, ops []Operation) RegionAmount {
		return RegionAmount{Region: region, Amount: lo.SumBy(ops, func(o Operation) float64 { return o.Undisbursed })}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Region < out[j].Region
	})
	total := lo.SumBy(out, func(r RegionAmount) float64 { return r.Amount })
	if len(out) > 0 && total == 0 {
		return nil, NewDivisionByZeroError("undisbursed balance of active operations is zero")
	}
	for i := range out {
		out[i].Share = out[i].Amount / total * 100
	}
	return out, nil
}

// TopRegions returns the first n entries of a ranking built by UndisbursedByRegion.
func TopRegions(ranked []RegionAmount, n int) ([]RegionAmount, error) {
	if len(ranked) < n {
		return nil, NewEmptyResultError("need %d regions with undisbursed balance, found %d", n, len(ranked))
	}
	return ranked[:n], nil
}

// SummaryRow is one line of the source summary table, in US$ millions.
type SummaryRow struct {
	Label       string
	Disbursed   float64
	Undisbursed float64
	Pipeline    float64
}

// SummaryTable has the IBRD, IDA and Total rows.
type SummaryTable struct {
	Rows []SummaryRow
}

// SourceSummary builds the disbursed / undisbursed / pipeline table by
// source. Values are rounded to one decimal; Total adds the rounded values.
func (a *Aggregator) SourceSummary() SummaryTable {
	ibrd := SummaryRow{
		Label:       string(SourceIBRD),
		Disbursed:   Round1(a.Sum(approved, func(o Operation) float64 { return o.DisbursedIBRD }) / 1e6),
		Undisbursed: Round1(a.Sum(active, func(o Operation) float64 { return o.UndisbursedIBRD }) / 1e6),
		Pipeline:    Round1(a.Sum(And(pipeline, SourceIs(SourceIBRD)), func(o Operation) float64 { return o.CommitmentCatDDO }) / 1e6),
	}
	ida := SummaryRow{
		Label:       string(SourceIDA),
		Disbursed:   Round1(a.Sum(approved, func(o Operation) float64 { return o.DisbursedIDA }) / 1e6),
		Undisbursed: Round1(a.Sum(active, func(o Operation) float64 { return o.UndisbursedIDA }) / 1e6),
		Pipeline:    Round1(a.Sum(And(pipeline, SourceIs(SourceIDA)), func(o Operation) float64 { return o.CommitmentCatDDO }) / 1e6),
	}
	total := SummaryRow{
		Label:       "Total",
		Disbursed:   Round1(ibrd.Disbursed + ida.Disbursed),
		Undisbursed: Round1(ibrd.Undisbursed + ida.Undisbursed),
		Pipeline:    Round1(ibrd.Pipeline + ida.Pipeline),
	}
	return SummaryTable{Rows: []SummaryRow{ibrd, ida, total}}
}

// Facts are the scalar aggregates behind the narrative sentences. Amounts are in US$.
type Facts struct {
	UpdateMonth string
	UpdateYear  string

	ApprovedCount int
	Countries     int
	ClosedCount   int
	PipelineCount int

	Disbursed     float64
	DisbursedIBRD float64
	DisbursedIDA  float64
	Undisbursed   float64

	PipelineIDACount       int
	PipelineIDACommitment  float64
	PipelineIBRDCount      int
	PipelineIBRDCommitment float64

	MixedCommitmentAll    float64
	MixedCommitmentCatDDO float64
}

// Facts computes the scalars of the portfolio sentences. Region rankings
// live in UndisbursedByRegion.
func (a *Aggregator) Facts() Facts {
	pipelineIDA := And(pipeline, SourceIs(SourceIDA))
	pipelineIBRD := And(pipeline, SourceIs(SourceIBRD))
	mixed := And(approved, TypeIs(TypeMixed))
	return Facts{
		UpdateMonth: a.p.Metadata.UpdateMonth,
		UpdateYear:  a.p.Metadata.UpdateYear,

		ApprovedCount: a.Count(approved),
		Countries:     a.CountDistinct(approved, func(o Operation) string { return o.Country }),
		ClosedCount:   a.Count(StatusIn(StatusClosed)),
		PipelineCount: a.Count(pipeline),

		Disbursed:     a.Sum(approved, func(o Operation) float64 { return o.Disbursed }),
		DisbursedIBRD: a.Sum(approved, func(o Operation) float64 { return o.DisbursedIBRD }),
		DisbursedIDA:  a.Sum(approved, func(o Operation) float64 { return o.DisbursedIDA }),
		Undisbursed:   a.Sum(active, func(o Operation) float64 { return o.Undisbursed }),

		PipelineIDACount:       a.Count(pipelineIDA),
		PipelineIDACommitment:  a.Sum(pipelineIDA, func(o Operation) float64 { return o.CommitmentCatDDO }),
		PipelineIBRDCount:      a.Count(pipelineIBRD),
		PipelineIBRDCommitment: a.Sum(pipelineIBRD, func(o Operation) float64 { return o.CommitmentCatDDO }),

		MixedCommitmentAll:    a.Sum(mixed, func(o Operation) float64 { return o.CommitmentAll }),
		MixedCommitmentCatDDO: a.Sum(mixed, func(o Operation) float64 { return o.CommitmentCatDDO }),
	}
}

// CoBenefitsOfType returns the records of one operation type, latest fiscal year first.
func CoBenefitsOfType(cbs []CoBenefit, t OperationType) []CoBenefit {
	out := lo.Filter(cbs, func(c CoBenefit, _ int) bool { return c.Type == t })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// MeanTotalPct averages the total co-benefit percentage.
func MeanTotalPct(cbs []CoBenefit) (float64, error) {
	if len(cbs) == 0 {
		return 0, NewEmptyResultError("no assessed co-benefit records")
	}
	return lo.SumBy(cbs, func(c CoBenefit) float64 { return c.TotalPct }) / float64(len(cbs)), nil
}

// CoBenefitMeans are the average total co-benefit percentages.
type CoBenefitMeans struct {
	All        float64
	Standalone float64
	Mixed      float64
}

func CoBenefitAverages(cbs []CoBenefit) (CoBenefitMeans, error) {
	var m CoBenefitMeans
	var err error
	if m.All, err = MeanTotalPct(cbs); err != nil {
		return m, err
	}
	if m.Standalone, err = MeanTotalPct(CoBenefitsOfType(cbs, TypeStandalone)); err != nil {
		return m, NewEmptyResultError("no assessed standalone operations")
	}
	if m.Mixed, err = MeanTotalPct(CoBenefitsOfType(cbs, TypeMixed)); err != nil {
		return m, NewEmptyResultError("no assessed mixed operations")
	}
	return m, nil
}

// Round1 rounds half away from zero to one decimal.
func Round1(x float64) float64 { return math.Round(x*10) / 10 }
