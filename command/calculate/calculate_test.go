package calculate

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"catddo-stats/connectors/chart"
	ccsv "catddo-stats/connectors/csv"
	"catddo-stats/domain/catddo"
	"catddo-stats/domain/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := config.Default()
	c.Data.Dir = filepath.Join("..", "..", "testdata")
	c.Output.Dir = filepath.Join(t.TempDir(), "out")
	return &c
}

func TestBuild(t *testing.T) {
	rep, err := Build(testConfig(t))
	require.NoError(t, err)

	assert.Len(t, rep.Portfolio.Operations, 4)
	assert.Equal(t, []string{"'10", "'11", "'12", "'13"}, rep.ByYearRegion.Rows)
	assert.Len(t, rep.CoBenefits, 3)
	assert.Equal(t, "Cat DDOs have disbursed a total of US$ 0.5 billion", rep.Sentences[1])
}

func TestBuild_MissingInput(t *testing.T) {
	cfg := testConfig(t)
	cfg.Data.Dir = t.TempDir()

	_, err := Build(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, catddo.ErrMissingFile))
}

func TestBuild_InvalidFirstFY(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.FirstFY = "sometime"

	_, err := Build(cfg)
	assert.True(t, catddo.IsKind(err, catddo.KindSchema))
}

func TestWrite(t *testing.T) {
	cfg := testConfig(t)
	rep, err := Build(cfg)
	require.NoError(t, err)

	var stdout bytes.Buffer
	require.NoError(t, Write(cfg, rep, &stdout))

	assert.Contains(t, stdout.String(), "Of the undisbursed amount, US$ 300.0 million (75.0%) is allocated to EAP and US$ 100.0 million (25.0%) to AFR.")
	text, err := os.ReadFile(filepath.Join(cfg.Output.Dir, TextFile))
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(text))

	for _, f := range []string{
		filepath.Join(TablesDir, ccsv.SummaryFile),
		filepath.Join(TablesDir, ccsv.DisbursementsFile),
		filepath.Join(TablesDir, ccsv.YearRegionFile),
		filepath.Join(TablesDir, ccsv.RegionStatusFile),
		filepath.Join(TablesDir, ccsv.YearTypeFile),
		filepath.Join(TablesDir, ccsv.RegionBalancesFile),
		filepath.Join(TablesDir, ccsv.CoBenefitsFile),
		filepath.Join(ChartsDir, chart.DisbursementsChart+".png"),
		filepath.Join(ChartsDir, chart.MixedCCBChart+".png"),
		WorkbookFile,
	} {
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, f))
	}
}

func TestWrite_WithoutChartsOrWorkbook(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Charts = false
	cfg.Output.Workbook = false
	rep, err := Build(cfg)
	require.NoError(t, err)

	require.NoError(t, Write(cfg, rep, &bytes.Buffer{}))
	assert.NoDirExists(t, filepath.Join(cfg.Output.Dir, ChartsDir))
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, WorkbookFile))
	assert.FileExists(t, filepath.Join(cfg.Output.Dir, TablesDir, ccsv.SummaryFile))
}
