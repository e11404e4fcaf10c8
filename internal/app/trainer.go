// Package service runs the training job: fetch labeled memos, fit the
// tf-idf + Naive Bayes pipeline and persist it as the model artifact.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/memoclass/internal/adapters/artifact"
	"github.com/okian/memoclass/internal/adapters/source"
	"github.com/okian/memoclass/internal/domain/model"
	"github.com/okian/memoclass/internal/domain/pipeline"
	"github.com/okian/memoclass/pkg/logger"
	"github.com/okian/memoclass/pkg/metrics"
)

const defaultAlpha = 1.0

// Result describes a completed training run.
type Result struct {
	RunID          string
	Pipeline       *pipeline.Pipeline
	Records        int
	Skipped        int
	Classes        []string
	VocabularySize int
	ArtifactPath   string
	Bytes          int64
}

// Trainer fits and persists the memo classifier.
type Trainer struct {
	source source.Source
	store  artifact.Store
	logger logger.Logger
	alpha  float64
	now    func() time.Time
}

// New constructs a Trainer. Without WithStore the model is written to the
// default artifact path; without WithLogger the global logger is used.
func New(opts ...Option) *Trainer {
	t := &Trainer{
		alpha: defaultAlpha,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.store == nil {
		t.store = artifact.NewFileStore()
	}
	if t.logger == nil {
		t.logger = logger.Named("trainer")
	}
	return t
}

// Train runs one fetch, fit and save cycle. The artifact is only touched
// once the model has been fitted, so any earlier failure leaves a previous
// artifact in place.
func (t *Trainer) Train(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := t.logger.With(logger.String("run_id", runID))
	started := time.Now()

	log.Info(ctx, "training run started", logger.String("artifact", t.store.Path()))

	res, err := t.run(ctx, runID, log)
	if err != nil {
		metrics.RecordRun(outcome(err))
		log.Error(ctx, "training run failed",
			logger.Error(err),
			logger.Duration("elapsed", time.Since(started)),
		)
		return nil, err
	}

	metrics.RecordRun(metrics.OutcomeSuccess)
	metrics.RecordSuccess(res.Bytes, t.now())
	log.Info(ctx, "training run finished",
		logger.Int("records", res.Records),
		logger.Int("skipped", res.Skipped),
		logger.Strings("classes", res.Classes),
		logger.Int("vocabulary", res.VocabularySize),
		logger.String("artifact", res.ArtifactPath),
		logger.Int64("bytes", res.Bytes),
		logger.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

func (t *Trainer) run(ctx context.Context, runID string, log logger.Logger) (*Result, error) {
	ds, err := t.fetch(ctx, log)
	if err != nil {
		return nil, err
	}

	usable, skipped, err := t.validate(ctx, ds, log)
	if err != nil {
		return nil, err
	}

	p, err := t.fit(ctx, usable, log)
	if err != nil {
		return nil, err
	}

	snap, err := p.Export()
	if err != nil {
		return nil, fmt.Errorf("%w: export: %w", ErrTraining, err)
	}

	a := artifact.Artifact{
		Meta: artifact.Meta{
			RunID:     runID,
			TrainedAt: t.now().UTC(),
			Records:   usable.Len(),
			Classes:   p.Classes(),
		},
		Model: snap,
	}
	n, err := t.save(ctx, a, log)
	if err != nil {
		return nil, err
	}

	return &Result{
		RunID:          runID,
		Pipeline:       p,
		Records:        usable.Len(),
		Skipped:        skipped,
		Classes:        p.Classes(),
		VocabularySize: p.VocabularySize(),
		ArtifactPath:   t.store.Path(),
		Bytes:          n,
	}, nil
}

func (t *Trainer) fetch(ctx context.Context, log logger.Logger) (model.Dataset, error) {
	defer stage(metrics.StageFetch, time.Now())

	if t.source == nil {
		return model.Dataset{}, fmt.Errorf("%w: no source configured", ErrDataUnavailable)
	}
	ds, err := t.source.Fetch(ctx)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	log.Debug(ctx, "records fetched",
		logger.Int("content", len(ds.Content)),
		logger.Int("classification", len(ds.Classification)),
	)
	return ds, nil
}

func (t *Trainer) validate(ctx context.Context, ds model.Dataset, log logger.Logger) (model.Dataset, int, error) {
	defer stage(metrics.StageValidate, time.Now())

	if err := ds.Validate(); err != nil {
		switch {
		case errors.Is(err, model.ErrLengthMismatch):
			return model.Dataset{}, 0, fmt.Errorf("%w: %w", ErrLengthMismatch, err)
		default:
			return model.Dataset{}, 0, fmt.Errorf("%w: %w", ErrEmptyDataset, err)
		}
	}

	usable, skipped := ds.Usable()
	metrics.UpdateDataset(ds.Len(), skipped)
	if skipped > 0 {
		log.Warn(ctx, "records without content or classification skipped",
			logger.Int("skipped", skipped),
			logger.Int("fetched", ds.Len()),
		)
	}
	if usable.Len() == 0 {
		return model.Dataset{}, 0, fmt.Errorf("%w: all %d records are blank", ErrEmptyDataset, ds.Len())
	}
	return usable, skipped, nil
}

func (t *Trainer) fit(ctx context.Context, ds model.Dataset, log logger.Logger) (*pipeline.Pipeline, error) {
	defer stage(metrics.StageFit, time.Now())

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTraining, err)
	}
	p := pipeline.New(pipeline.WithAlpha(t.alpha))
	if err := p.Fit(ds.Content, ds.Classification); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTraining, err)
	}
	metrics.UpdateModel(p.VocabularySize(), len(p.Classes()))
	log.Debug(ctx, "pipeline fitted",
		logger.Int("vocabulary", p.VocabularySize()),
		logger.Strings("classes", p.Classes()),
		logger.Float64("alpha", t.alpha),
	)
	return p, nil
}

func (t *Trainer) save(ctx context.Context, a artifact.Artifact, log logger.Logger) (int64, error) {
	defer stage(metrics.StageSave, time.Now())

	n, err := t.store.Save(ctx, a)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	log.Debug(ctx, "artifact written", logger.String("path", t.store.Path()), logger.Int64("bytes", n))
	return n, nil
}

func stage(name string, start time.Time) {
	metrics.RecordStageDuration(name, time.Since(start))
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrDataUnavailable):
		return metrics.OutcomeDataUnavailable
	case errors.Is(err, ErrLengthMismatch), errors.Is(err, ErrEmptyDataset):
		return metrics.OutcomeInvalidDataset
	case errors.Is(err, ErrSerialization):
		return metrics.OutcomeSerialization
	default:
		return metrics.OutcomeTraining
	}
}
