// Package config defines the trainer configuration and its loading hooks.
package config

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Source driver names understood by the trainer.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverFile     = "file"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	Source   SourceConfig   `koanf:"source"`
	Artifact ArtifactConfig `koanf:"artifact"`
	Training TrainingConfig `koanf:"training"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// SourceConfig selects where labeled memos are read from.
type SourceConfig struct {
	// Driver is one of sqlite, postgres or file.
	Driver string `koanf:"driver"`

	// DSN is the connection string for the sql drivers.
	DSN string `koanf:"dsn"`

	// Path is the dataset file read by the file driver.
	Path string `koanf:"path"`

	// Feedback applies reviewer corrections to stored labels.
	Feedback bool `koanf:"feedback"`

	// Migrate applies the embedded schema before reading.
	Migrate bool `koanf:"migrate"`
}

// ArtifactConfig controls where the fitted model is written.
type ArtifactConfig struct {
	Path string `koanf:"path"`

	// Compression is the zstd level: fastest, default, better or best.
	Compression string `koanf:"compression"`
}

// CompressionLevel returns the zstd encoder level named by Compression.
// Unknown names map to the default level; Validate rejects them.
func (a ArtifactConfig) CompressionLevel() zstd.EncoderLevel {
	if ok, level := zstd.EncoderLevelFromString(strings.TrimSpace(a.Compression)); ok {
		return level
	}
	return zstd.SpeedDefault
}

// TrainingConfig holds model hyperparameters.
type TrainingConfig struct {
	// Alpha is the additive smoothing of the classifier.
	Alpha float64 `koanf:"alpha"`
}

// MetricsConfig configures the optional Pushgateway export.
type MetricsConfig struct {
	PushURL string `koanf:"push_url"`
	Job     string `koanf:"job"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Source: SourceConfig{
			Driver: DriverSQLite,
			DSN:    "db/database.sqlite",
		},
		Artifact: ArtifactConfig{
			Path:        "ml-model/model.bin",
			Compression: "default",
		},
		Training: TrainingConfig{
			Alpha: 1.0,
		},
		Metrics: MetricsConfig{
			Job: "memoclass_trainer",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	driver := strings.ToLower(strings.TrimSpace(c.Source.Driver))
	switch driver {
	case DriverSQLite, DriverPostgres:
		if strings.TrimSpace(c.Source.DSN) == "" {
			return fmt.Errorf("%w: source.dsn must not be empty for driver %q", ErrInvalidConfig, driver)
		}
	case DriverFile:
		if strings.TrimSpace(c.Source.Path) == "" {
			return fmt.Errorf("%w: source.path must not be empty for driver %q", ErrInvalidConfig, driver)
		}
	default:
		return fmt.Errorf("%w: unknown source.driver %q", ErrInvalidConfig, c.Source.Driver)
	}
	if strings.TrimSpace(c.Artifact.Path) == "" {
		return fmt.Errorf("%w: artifact.path must not be empty", ErrInvalidConfig)
	}
	if ok, _ := zstd.EncoderLevelFromString(strings.TrimSpace(c.Artifact.Compression)); !ok {
		return fmt.Errorf("%w: unknown artifact.compression %q", ErrInvalidConfig, c.Artifact.Compression)
	}
	if c.Training.Alpha <= 0 {
		return fmt.Errorf("%w: training.alpha must be positive, got %v", ErrInvalidConfig, c.Training.Alpha)
	}
	if c.Metrics.PushURL != "" && strings.TrimSpace(c.Metrics.Job) == "" {
		return fmt.Errorf("%w: metrics.job must not be empty when push_url is set", ErrInvalidConfig)
	}
	return nil
}
