package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/memoclass/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MEMOCLASS_LOG_LEVEL", "debug")
			_ = os.Setenv("MEMOCLASS_SOURCE__DRIVER", "postgres")
			_ = os.Setenv("MEMOCLASS_SOURCE__DSN", "postgres://localhost/memos")
			_ = os.Setenv("MEMOCLASS_SOURCE__FEEDBACK", "true")
			_ = os.Setenv("MEMOCLASS_METRICS__PUSH_URL", "http://pushgateway:9091")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Source.Driver, convey.ShouldEqual, "postgres")
				convey.So(cfg.Source.DSN, convey.ShouldEqual, "postgres://localhost/memos")
				convey.So(cfg.Source.Feedback, convey.ShouldBeTrue)
				convey.So(cfg.Metrics.PushURL, convey.ShouldEqual, "http://pushgateway:9091")
				convey.So(cfg.Metrics.Job, convey.ShouldEqual, "memoclass_trainer")
				convey.So(cfg.Artifact.Path, convey.ShouldEqual, "ml-model/model.bin")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
log_format: json
source:
  driver: file
  path: data/memos.yaml
artifact:
  path: out/model.bin
  compression: better
training:
  alpha: 0.5
`)
			_ = os.Setenv("MEMOCLASS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.Source.Driver, convey.ShouldEqual, "file")
				convey.So(cfg.Source.Path, convey.ShouldEqual, "data/memos.yaml")
				convey.So(cfg.Artifact.Path, convey.ShouldEqual, "out/model.bin")
				convey.So(cfg.Artifact.Compression, convey.ShouldEqual, "better")
				convey.So(cfg.Training.Alpha, convey.ShouldEqual, 0.5)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, `
source:
  driver: file
  path: data/memos.yaml
artifact:
  path: out/model.bin
`)
			_ = os.Setenv("MEMOCLASS_CONFIG", tmpFile)
			_ = os.Setenv("MEMOCLASS_ARTIFACT__PATH", "override/model.bin")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Artifact.Path, convey.ShouldEqual, "override/model.bin")
				convey.So(cfg.Source.Path, convey.ShouldEqual, "data/memos.yaml")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("MEMOCLASS_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("MEMOCLASS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the environment selects an unknown driver", func() {
			_ = os.Setenv("MEMOCLASS_SOURCE__DRIVER", "csv")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "csv")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"MEMOCLASS_CONFIG",
		"MEMOCLASS_LOG_LEVEL",
		"MEMOCLASS_LOG_FORMAT",
		"MEMOCLASS_SOURCE__DRIVER",
		"MEMOCLASS_SOURCE__DSN",
		"MEMOCLASS_SOURCE__PATH",
		"MEMOCLASS_SOURCE__FEEDBACK",
		"MEMOCLASS_SOURCE__MIGRATE",
		"MEMOCLASS_ARTIFACT__PATH",
		"MEMOCLASS_ARTIFACT__COMPRESSION",
		"MEMOCLASS_TRAINING__ALPHA",
		"MEMOCLASS_METRICS__PUSH_URL",
		"MEMOCLASS_METRICS__JOB",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memoclass.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
