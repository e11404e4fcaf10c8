// Package pipeline chains the tf-idf vectorizer and the Naive Bayes classifier
// into a single fitted model.
package pipeline

import (
	"fmt"

	"github.com/okian/memoclass/internal/domain/bayes"
	"github.com/okian/memoclass/internal/domain/tfidf"
)

// Snapshot is the plain-table form of a fitted pipeline.
type Snapshot struct {
	Vectorizer tfidf.State `json:"vectorizer"`
	Classifier bayes.State `json:"classifier"`
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithAlpha sets the classifier smoothing constant.
func WithAlpha(alpha float64) Option {
	return func(p *Pipeline) {
		p.classifierOpts = append(p.classifierOpts, bayes.WithAlpha(alpha))
	}
}

// Pipeline is a vectorizer followed by a classifier.
type Pipeline struct {
	vectorizer     *tfidf.Vectorizer
	classifier     *bayes.Multinomial
	classifierOpts []bayes.Option
	fitted         bool
}

// New creates an unfitted pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	p.vectorizer = tfidf.New()
	p.classifier = bayes.New(p.classifierOpts...)
	return p
}

// Fit trains the vectorizer on texts and the classifier on the resulting rows.
// On error the pipeline keeps its previous state.
func (p *Pipeline) Fit(texts, labels []string) error {
	if len(texts) != len(labels) {
		return fmt.Errorf("%w: %d texts, %d labels", ErrLengthMismatch, len(texts), len(labels))
	}
	vec := tfidf.New()
	rows, err := vec.FitTransform(texts)
	if err != nil {
		return fmt.Errorf("vectorize: %w", err)
	}
	clf := bayes.New(p.classifierOpts...)
	if err := clf.Fit(rows, labels, vec.Features()); err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	p.vectorizer = vec
	p.classifier = clf
	p.fitted = true
	return nil
}

// Predict returns the most likely label for text.
func (p *Pipeline) Predict(text string) (string, error) {
	row, err := p.row(text)
	if err != nil {
		return "", err
	}
	return p.classifier.Predict(row)
}

// PredictProba returns the class probabilities for text.
func (p *Pipeline) PredictProba(text string) (map[string]float64, error) {
	row, err := p.row(text)
	if err != nil {
		return nil, err
	}
	return p.classifier.PredictProba(row)
}

func (p *Pipeline) row(text string) (tfidf.Vector, error) {
	if !p.fitted {
		return tfidf.Vector{}, ErrNotFitted
	}
	rows, err := p.vectorizer.Transform([]string{text})
	if err != nil {
		return tfidf.Vector{}, err
	}
	return rows[0], nil
}

// Classes returns the labels the classifier can emit.
func (p *Pipeline) Classes() []string {
	if !p.fitted {
		return nil
	}
	return p.classifier.Classes()
}

// VocabularySize returns the number of learned terms.
func (p *Pipeline) VocabularySize() int {
	return p.vectorizer.Features()
}

// Export returns the fitted tables.
func (p *Pipeline) Export() (Snapshot, error) {
	if !p.fitted {
		return Snapshot{}, ErrNotFitted
	}
	vs, err := p.vectorizer.State()
	if err != nil {
		return Snapshot{}, err
	}
	cs, err := p.classifier.State()
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Vectorizer: vs, Classifier: cs}, nil
}

// FromSnapshot rebuilds a fitted pipeline.
func FromSnapshot(s Snapshot) (*Pipeline, error) {
	vec, err := tfidf.FromState(s.Vectorizer)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	clf, err := bayes.FromState(s.Classifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}
	if got, want := len(s.Classifier.FeatureLogProb[0]), vec.Features(); got != want {
		return nil, fmt.Errorf("%w: classifier has %d features, vocabulary has %d", ErrInvalidModel, got, want)
	}
	return &Pipeline{
		vectorizer:     vec,
		classifier:     clf,
		classifierOpts: []bayes.Option{bayes.WithAlpha(s.Classifier.Alpha)},
		fitted:         true,
	}, nil
}
