package catddo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentences(t *testing.T) {
	a := NewAggregator(fixturePortfolio(t))
	regions, err := a.UndisbursedByRegion()
	require.NoError(t, err)

	got, err := Sentences(a.Facts(), regions)
	require.NoError(t, err)
	require.Len(t, got, 7)

	assert.Equal(t, "As of June, 2024, 3 Cat DDOs have been approved in 3 countries, with 1 of these operations having already been closed. There are additional 1 Cat DDOs currently in the pipeline.", got[0])
	assert.Equal(t, "Cat DDOs have disbursed a total of US$ 0.5 billion", got[1])
	assert.True(t, strings.HasPrefix(got[2], "IBRD countries account for larger disbursed amounts (70.0% against 30.0% for IDA countries)."), got[2])
	assert.Contains(t, got[3], "undisbursed balance of US$ 0.4 billion")
	assert.Equal(t, "Of the undisbursed amount, US$ 300.0 million (75.0%) is allocated to EAP and US$ 100.0 million (25.0%) to AFR.", got[4])
	assert.Equal(t, "1 Cat DDOs totaling US$ 30.0 million are under preparation in IDA countries, compared to 0 operations amounting to US$ 0.0 million for IBRD countries.", got[5])
	assert.Contains(t, got[6], "Of the US$ 1000.0 million committed")
	assert.Contains(t, got[6], "US$ 500.0 million has been specifically allocated to the Cat DDO.")
}

func TestSourceShareSentence(t *testing.T) {
	tests := []struct {
		name   string
		ibrd   float64
		ida    float64
		prefix string
	}{
		{"ibrd larger", 70, 30, "IBRD countries account for larger disbursed amounts (70.0% against 30.0% for IDA countries)."},
		{"ida larger", 1, 2, "IDA countries account for larger disbursed amounts (66.7% against 33.3% for IBRD countries)."},
		{"tie goes to ida", 5, 5, "IDA countries account for larger disbursed amounts (50.0% against 50.0% for IBRD countries)."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SourceShareSentence(Facts{DisbursedIBRD: tt.ibrd, DisbursedIDA: tt.ida})
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(s, tt.prefix), s)
			assert.True(t, strings.HasSuffix(s, "since 2018."))
		})
	}

	_, err := SourceShareSentence(Facts{})
	assert.True(t, IsKind(err, KindDivisionByZero))
}

func TestRegionSentence_NeedsTwoRegions(t *testing.T) {
	_, err := RegionSentence([]RegionAmount{{Region: "AFR", Amount: 1, Share: 100}})
	assert.True(t, IsKind(err, KindEmptyResult))
}

func TestCoBenefitSentences(t *testing.T) {
	got := CoBenefitSentences(CoBenefitMeans{All: 125.0 / 3, Standalone: 55, Mixed: 15})

	require.Len(t, got, 3)
	assert.Contains(t, got[0], "achieves 42% climate co-benefits")
	assert.Contains(t, got[1], "an average of 55% climate co-benefits")
	assert.Contains(t, got[2], "attain only 15% when")
}

func TestFormatSummaryTable(t *testing.T) {
	out := FormatSummaryTable(NewAggregator(fixturePortfolio(t)).SourceSummary())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"Disbursed", "Undisbursed", "Pipeline"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"IBRD", "350.0", "300.0", "0.0"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"IDA", "150.0", "100.0", "30.0"}, strings.Fields(lines[2]))
	assert.Equal(t, []string{"Total", "500.0", "400.0", "30.0"}, strings.Fields(lines[3]))
}

func TestBuildReport(t *testing.T) {
	p := fixturePortfolio(t)
	rep, err := BuildReport(p, fixtureCoBenefits(t, p), 2010)
	require.NoError(t, err)

	assert.Len(t, rep.Sentences, 7)
	assert.Len(t, rep.CoBenefitSentences, 3)
	assert.Len(t, rep.Regions, 2)

	text := rep.Text()
	assert.True(t, strings.HasPrefix(strings.TrimLeft(text, " "), "Disbursed"))
	assert.Contains(t, text, "Cat DDOs have disbursed a total of US$ 0.5 billion\n")
	assert.True(t, strings.HasSuffix(text, "catastrophe-contingent financing.\n"))
}
