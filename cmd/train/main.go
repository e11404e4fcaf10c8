// Command train fits the memo classifier from the configured source and
// writes the model artifact.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/memoclass/internal/adapters/artifact"
	"github.com/okian/memoclass/internal/adapters/source"
	service "github.com/okian/memoclass/internal/app"
	"github.com/okian/memoclass/internal/config"
	"github.com/okian/memoclass/pkg/logger"
	"github.com/okian/memoclass/pkg/metrics"
)

func main() {
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := 0
	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "training failed", logger.Error(err))
		code = 1
	}

	stop()
	_ = logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := configureLogging(ctx, cfg)

	src, err := source.Open(ctx, source.Config{
		Driver:   cfg.Source.Driver,
		DSN:      cfg.Source.DSN,
		Path:     cfg.Source.Path,
		Feedback: cfg.Source.Feedback,
		Migrate:  cfg.Source.Migrate,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrDataUnavailable, err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			log.Warn(ctx, "closing source failed", logger.Error(cerr))
		}
	}()

	trainer := service.New(
		service.WithSource(src),
		service.WithStore(artifact.NewFileStore(
			artifact.WithPath(cfg.Artifact.Path),
			artifact.WithCompressionLevel(cfg.Artifact.CompressionLevel()),
		)),
		service.WithLogger(logger.Named("trainer")),
		service.WithAlpha(cfg.Training.Alpha),
	)
	res, err := trainer.Train(ctx)

	// Batch jobs are gone before a scrape, so results are pushed either way.
	if cfg.Metrics.PushURL != "" {
		if perr := metrics.Push(ctx, cfg.Metrics.PushURL, cfg.Metrics.Job); perr != nil {
			log.Warn(ctx, "pushing metrics failed", logger.String("url", cfg.Metrics.PushURL), logger.Error(perr))
		}
	}
	if err != nil {
		return err
	}

	log.Info(ctx, "model written",
		logger.String("run_id", res.RunID),
		logger.String("path", res.ArtifactPath),
		logger.Int64("bytes", res.Bytes),
	)
	return nil
}

// configureLogging applies the configured level and format and returns the
// rebuilt global logger. Fallback warnings are written in the final format.
func configureLogging(ctx context.Context, cfg *config.Config) logger.Logger {
	levelErr := logger.SetLevelString(cfg.LogLevel)
	if levelErr != nil {
		_ = logger.SetLevelString("info")
	}
	formatErr := logger.SetFormat(cfg.LogFormat)
	if formatErr != nil {
		_ = logger.SetFormat(logger.FormatText)
	}

	log := logger.Get()
	if levelErr != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(levelErr))
	}
	if formatErr != nil {
		log.Warn(ctx, "invalid log_format; falling back to text", logger.String("log_format", cfg.LogFormat), logger.Error(formatErr))
	}
	return log
}
