package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"catddo-stats/domain/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, config.Default(), *c)
	assert.Equal(t, "Cat_DDO_Portfolio.csv", c.Data.PortfolioFile)
	assert.Equal(t, config.ZeroCommitmentSkip, c.CoBenefits.ZeroCommitment)
	assert.Equal(t, "FY", c.Portfolio.FYLabelPrefix)
	assert.Equal(t, "FY", c.CoBenefits.FYLabelPrefix)
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
output:
  dir: results
  charts: false
cobenefits:
  zero_commitment: error
report:
  first_fy: FY12
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "results", c.Output.Dir)
	assert.False(t, c.Output.Charts)
	assert.Equal(t, "png", c.Output.ChartFormat)
	assert.Equal(t, config.ZeroCommitmentError, c.CoBenefits.ZeroCommitment)
	assert.Equal(t, "Project ID", c.CoBenefits.ProjectID)
	assert.Equal(t, "FY12", c.Report.FirstFY)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	t.Setenv("CATDDO_DATA_DIR", "/srv/data")
	t.Setenv("CATDDO_OUTPUT_DIR", "/srv/out")
	t.Setenv("CATDDO_LOG_LEVEL", "debug")
	path := writeConfig(t, "output:\n  dir: results\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", c.Data.Dir)
	assert.Equal(t, "/srv/out", c.Output.Dir)
	assert.Equal(t, slog.LevelDebug, LogLevel(c))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero commitment policy", "cobenefits:\n  zero_commitment: ignore\n"},
		{"chart format", "output:\n  chart_format: gif\n"},
		{"empty prefix", "portfolio:\n  fy_prefix: \"\"\n"},
		{"malformed yaml", "output: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadDefault_ConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "data:\n  dir: elsewhere\n"))

	c, err := LoadDefault()
	require.NoError(t, err)
	assert.Equal(t, "elsewhere", c.Data.Dir)
}

func TestLogLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"unknown": slog.LevelInfo,
	} {
		c := config.Default()
		c.Logging.Level = name
		assert.Equal(t, want, LogLevel(&c), name)
	}
}
