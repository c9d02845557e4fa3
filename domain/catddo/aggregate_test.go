package catddo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisbursementsByYear(t *testing.T) {
	s := NewAggregator(fixturePortfolio(t)).DisbursementsByYear()

	assert.Equal(t, []float64{0, 100e6, 250e6}, s.IBRD)
	assert.Equal(t, []float64{0, 0, 150e6}, s.IDA)
	assert.Equal(t, []float64{0, 100e6, 400e6}, s.Total)
	for i := range s.Total {
		assert.Equal(t, s.IBRD[i]+s.IDA[i], s.Total[i])
	}
}

func TestApprovalsByYearAndRegion(t *testing.T) {
	p := fixturePortfolio(t)
	ct := NewAggregator(p).ApprovalsByYearAndRegion(2010)

	assert.Equal(t, []string{"'10", "'11", "'12", "'13"}, ct.Rows)
	assert.Equal(t, []string{"AFR", "EAP", "LCR", "SAR"}, ct.Cols)
	// Years without approvals are kept with zero counts.
	assert.Equal(t, []int{0, 0, 0, 0}, ct.Counts[0])
	assert.Equal(t, 1, ct.Count("'11", "LCR"))
	assert.Equal(t, 1, ct.Count("'12", "EAP"))
	assert.Equal(t, 0, ct.Count("'12", "Unknown"))
	assert.Equal(t, len(p.Operations), ct.Total())
	assert.Equal(t, []float64{0, 0, 1, 0}, ct.Column("AFR"))
}

func TestApprovalsByYearAndRegion_FirstYearAfterEarliest(t *testing.T) {
	ct := NewAggregator(fixturePortfolio(t)).ApprovalsByYearAndRegion(2012)

	assert.Equal(t, []string{"'11", "'12", "'13"}, ct.Rows)
}

func TestApprovalsByRegionAndStatus(t *testing.T) {
	p := fixturePortfolio(t)
	ct := NewAggregator(p).ApprovalsByRegionAndStatus()

	assert.Equal(t, []string{"AFR", "EAP", "LCR", "SAR"}, ct.Rows)
	assert.Equal(t, []string{"Active", "Closed", "Pipeline"}, ct.Cols)
	assert.Equal(t, 1, ct.Count("AFR", "Active"))
	assert.Equal(t, 1, ct.Count("LCR", "Closed"))
	assert.Equal(t, 1, ct.Count("SAR", "Pipeline"))
	assert.Equal(t, 0, ct.Count("SAR", "Active"))
	assert.Equal(t, len(p.Operations), ct.Total())
}

func TestApprovalsByYearAndType(t *testing.T) {
	p := fixturePortfolio(t)
	ct := NewAggregator(p).ApprovalsByYearAndType(2010)

	assert.Equal(t, []string{"Mixed", "Standalone"}, ct.Cols)
	assert.Equal(t, []int{0, 1, 2, 1}, ct.RowTotals())
	assert.Equal(t, 1, ct.Count("'12", "Mixed"))
	assert.Equal(t, len(p.Operations), ct.Total())
}

func TestUndisbursedByRegion(t *testing.T) {
	a := NewAggregator(fixturePortfolio(t))

	regions, err := a.UndisbursedByRegion()
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, RegionAmount{Region: "EAP", Amount: 300e6, Share: 75}, regions[0])
	assert.Equal(t, RegionAmount{Region: "AFR", Amount: 100e6, Share: 25}, regions[1])

	top, err := TopRegions(regions, 2)
	require.NoError(t, err)
	assert.Equal(t, regions, top)

	_, err = TopRegions(regions, 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyResult))
}

func TestUndisbursedByRegion_ZeroBalance(t *testing.T) {
	p := &Portfolio{Operations: []Operation{
		{ID: "A", Region: "AFR", Status: StatusActive, Source: SourceIDA, Type: TypeStandalone},
	}}

	_, err := NewAggregator(p).UndisbursedByRegion()
	assert.True(t, IsKind(err, KindDivisionByZero))
}

func TestSourceSummary(t *testing.T) {
	got := NewAggregator(fixturePortfolio(t)).SourceSummary()

	assert.Equal(t, []SummaryRow{
		{Label: "IBRD", Disbursed: 350, Undisbursed: 300, Pipeline: 0},
		{Label: "IDA", Disbursed: 150, Undisbursed: 100, Pipeline: 30},
		{Label: "Total", Disbursed: 500, Undisbursed: 400, Pipeline: 30},
	}, got.Rows)
}

func TestFacts(t *testing.T) {
	f := NewAggregator(fixturePortfolio(t)).Facts()

	assert.Equal(t, "June", f.UpdateMonth)
	assert.Equal(t, 3, f.ApprovedCount)
	assert.Equal(t, 3, f.Countries)
	assert.Equal(t, 1, f.ClosedCount)
	assert.Equal(t, 1, f.PipelineCount)
	assert.Equal(t, 500e6, f.Disbursed)
	assert.Equal(t, 400e6, f.Undisbursed)
	assert.Equal(t, 1, f.PipelineIDACount)
	assert.Equal(t, 30e6, f.PipelineIDACommitment)
	assert.Zero(t, f.PipelineIBRDCount)
	assert.Equal(t, 1000e6, f.MixedCommitmentAll)
	assert.Equal(t, 500e6, f.MixedCommitmentCatDDO)
}

// One active IBRD operation and one pipeline IDA operation.
func TestFacts_ActiveAndPipeline(t *testing.T) {
	p := &Portfolio{
		Metadata: fixtureMeta,
		Operations: []Operation{
			{ID: "A", Country: "X", Region: "LCR", FiscalYear: 2020, Status: StatusActive, Source: SourceIBRD, Type: TypeStandalone,
				Disbursed: 100, DisbursedIBRD: 100, Undisbursed: 50, UndisbursedIBRD: 50},
			{ID: "B", Country: "Y", Region: "AFR", FiscalYear: 2021, Status: StatusPipeline, Source: SourceIDA, Type: TypeStandalone,
				CommitmentCatDDO: 30},
		},
	}
	a := NewAggregator(p)
	f := a.Facts()

	assert.Equal(t, 100.0, f.Disbursed)
	assert.Equal(t, 50.0, f.Undisbursed)
	assert.Equal(t, 1, f.ApprovedCount)
	assert.Equal(t, 1, f.PipelineIDACount)
	assert.Equal(t, 30.0, f.PipelineIDACommitment)
	assert.Zero(t, f.PipelineIBRDCount)

	// Only the region sentence needs a second region.
	regions, err := a.UndisbursedByRegion()
	require.NoError(t, err)
	require.Len(t, regions, 1)
	_, err = Sentences(f, regions)
	assert.True(t, IsKind(err, KindEmptyResult))
	assert.Equal(t, "Cat DDOs have disbursed a total of US$ 0.0 billion", DisbursedSentence(f))
	assert.Contains(t, PipelineSentence(f), "1 Cat DDOs totaling US$ 0.0 million")
}

func TestCoBenefitAverages(t *testing.T) {
	cbs := fixtureCoBenefits(t, fixturePortfolio(t))

	m, err := CoBenefitAverages(cbs)
	require.NoError(t, err)
	assert.InDelta(t, 125.0/3, m.All, 1e-9)
	assert.InDelta(t, 55.0, m.Standalone, 1e-9)
	assert.InDelta(t, 15.0, m.Mixed, 1e-9)

	standalone := CoBenefitsOfType(cbs, TypeStandalone)
	require.Len(t, standalone, 2)
	assert.Equal(t, "P3", standalone[0].ProjectID)

	_, err = CoBenefitAverages(CoBenefitsOfType(cbs, TypeStandalone))
	assert.True(t, errors.Is(err, ErrEmptyResult))

	_, err = MeanTotalPct(nil)
	assert.True(t, IsKind(err, KindEmptyResult))
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 0.5, Round1(0.45))
	assert.Equal(t, -0.5, Round1(-0.45))
	assert.Equal(t, 12.3, Round1(12.34))
	assert.Equal(t, []int{2010, 2011, 2012}, YearRange(2010, 2012))
	assert.Nil(t, YearRange(2012, 2010))
}
