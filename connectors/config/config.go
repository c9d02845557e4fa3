package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"catddo-stats/domain/config"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "./config.yml"

// envOverrides are read from CATDDO_* environment variables and win over the file.
type envOverrides struct {
	DataDir   string `envconfig:"DATA_DIR"`
	OutputDir string `envconfig:"OUTPUT_DIR"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
}

// Load parses the YAML configuration file at path on top of config.Default().
// A missing file is not an error: the defaults are returned.
func Load(path string) (*config.Config, error) {
	c := config.Default()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("config.file.absent", "path", path)
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		slog.Info(fmt.Sprintf("Loaded config: %s", path))
	}

	var env envOverrides
	if err := envconfig.Process("CATDDO", &env); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if env.DataDir != "" {
		c.Data.Dir = env.DataDir
	}
	if env.OutputDir != "" {
		c.Output.Dir = env.OutputDir
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}

	if err := validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadDefault resolves CONFIG_PATH (or ./config.yml) and loads it.
func LoadDefault() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

// LogLevel maps the configured level name to a slog level.
func LogLevel(c *config.Config) slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func validate(c *config.Config) error {
	switch c.CoBenefits.ZeroCommitment {
	case config.ZeroCommitmentSkip, config.ZeroCommitmentError:
	default:
		return fmt.Errorf("cobenefits.zero_commitment must be %q or %q, got %q",
			config.ZeroCommitmentSkip, config.ZeroCommitmentError, c.CoBenefits.ZeroCommitment)
	}
	switch c.Output.ChartFormat {
	case "png", "svg":
	default:
		return fmt.Errorf("output.chart_format must be png or svg, got %q", c.Output.ChartFormat)
	}
	if c.Portfolio.FYPrefix == "" {
		return fmt.Errorf("portfolio.fy_prefix must not be empty")
	}
	return nil
}

// SetupLogging installs the default text logger on stderr at the configured level.
func SetupLogging(c *config.Config) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: LogLevel(c)})
	slog.SetDefault(slog.New(h))
}
