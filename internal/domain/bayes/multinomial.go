// Package bayes implements a multinomial Naive Bayes classifier over tf-idf rows.
package bayes

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/memoclass/internal/domain/tfidf"
)

// State is the learned classifier data in log space.
type State struct {
	Alpha          float64     `json:"alpha"`
	Classes        []string    `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// Multinomial is a multinomial event model classifier with additive smoothing.
//
// After Fit, for class c and feature j:
//
//	ClassLogPrior[c]     = ln(n_c / n)
//	FeatureLogProb[c][j] = ln((N_cj + alpha) / (N_c + alpha*features))
//
// where N_cj is the summed weight of feature j over rows of class c.
type Multinomial struct {
	alpha          float64
	classes        []string
	classLogPrior  []float64
	featureLogProb [][]float64
}

// New creates an unfitted classifier.
func New(opts ...Option) *Multinomial {
	m := &Multinomial{alpha: defaultAlpha}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Fit learns class priors and smoothed feature likelihoods.
func (m *Multinomial) Fit(x []tfidf.Vector, y []string, features int) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d samples, %d labels", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) == 0 {
		return ErrNoSamples
	}
	if features <= 0 {
		return fmt.Errorf("%w: %d features", ErrDimension, features)
	}

	classes := distinct(y)
	classIdx := make(map[string]int, len(classes))
	for i, c := range classes {
		classIdx[c] = i
	}

	classCount := make([]float64, len(classes))
	featureCount := make([][]float64, len(classes))
	for c := range featureCount {
		featureCount[c] = make([]float64, features)
	}
	for i, row := range x {
		c := classIdx[y[i]]
		classCount[c]++
		for k, j := range row.Indices {
			if j < 0 || j >= features {
				return fmt.Errorf("%w: index %d with %d features", ErrDimension, j, features)
			}
			featureCount[c][j] += row.Values[k]
		}
	}

	n := float64(len(x))
	prior := make([]float64, len(classes))
	logProb := make([][]float64, len(classes))
	for c := range classes {
		prior[c] = math.Log(classCount[c] / n)

		var total float64
		for _, v := range featureCount[c] {
			total += v
		}
		denom := math.Log(total + m.alpha*float64(features))
		logProb[c] = make([]float64, features)
		for j, v := range featureCount[c] {
			logProb[c][j] = math.Log(v+m.alpha) - denom
		}
	}

	m.classes = classes
	m.classLogPrior = prior
	m.featureLogProb = logProb
	return nil
}

// PredictLogJoint returns the unnormalised log posterior for every class,
// in the order of Classes.
func (m *Multinomial) PredictLogJoint(x tfidf.Vector) ([]float64, error) {
	if m.classes == nil {
		return nil, ErrNotFitted
	}
	features := len(m.featureLogProb[0])
	for _, j := range x.Indices {
		if j < 0 || j >= features {
			return nil, fmt.Errorf("%w: index %d with %d features", ErrDimension, j, features)
		}
	}
	jll := make([]float64, len(m.classes))
	for c := range m.classes {
		jll[c] = m.classLogPrior[c] + x.Dot(m.featureLogProb[c])
	}
	return jll, nil
}

// Predict returns the most likely class. Ties go to the class that sorts first.
func (m *Multinomial) Predict(x tfidf.Vector) (string, error) {
	jll, err := m.PredictLogJoint(x)
	if err != nil {
		return "", err
	}
	best := 0
	for c := 1; c < len(jll); c++ {
		if jll[c] > jll[best] {
			best = c
		}
	}
	return m.classes[best], nil
}

// PredictProba returns normalised class probabilities.
func (m *Multinomial) PredictProba(x tfidf.Vector) (map[string]float64, error) {
	jll, err := m.PredictLogJoint(x)
	if err != nil {
		return nil, err
	}
	norm := logSumExp(jll)
	out := make(map[string]float64, len(jll))
	for c, v := range jll {
		out[m.classes[c]] = math.Exp(v - norm)
	}
	return out, nil
}

// Classes returns the learned labels in sorted order.
func (m *Multinomial) Classes() []string {
	out := make([]string, len(m.classes))
	copy(out, m.classes)
	return out
}

// State exports a copy of the learned tables.
func (m *Multinomial) State() (State, error) {
	if m.classes == nil {
		return State{}, ErrNotFitted
	}
	s := State{
		Alpha:          m.alpha,
		Classes:        m.Classes(),
		ClassLogPrior:  append([]float64(nil), m.classLogPrior...),
		FeatureLogProb: make([][]float64, len(m.featureLogProb)),
	}
	for c, row := range m.featureLogProb {
		s.FeatureLogProb[c] = append([]float64(nil), row...)
	}
	return s, nil
}

// FromState restores a fitted classifier.
func FromState(s State) (*Multinomial, error) {
	k := len(s.Classes)
	if k == 0 || len(s.ClassLogPrior) != k || len(s.FeatureLogProb) != k {
		return nil, fmt.Errorf("%w: %d classes, %d priors, %d likelihood rows",
			ErrInvalidState, k, len(s.ClassLogPrior), len(s.FeatureLogProb))
	}
	features := len(s.FeatureLogProb[0])
	if features == 0 {
		return nil, fmt.Errorf("%w: no features", ErrInvalidState)
	}
	for c, row := range s.FeatureLogProb {
		if len(row) != features {
			return nil, fmt.Errorf("%w: row %d has %d features, want %d", ErrInvalidState, c, len(row), features)
		}
	}
	if !sort.StringsAreSorted(s.Classes) {
		return nil, fmt.Errorf("%w: classes not sorted", ErrInvalidState)
	}

	for c, lp := range s.ClassLogPrior {
		if !finite(lp) {
			return nil, fmt.Errorf("%w: class %d log prior is %v", ErrInvalidState, c, lp)
		}
	}
	for c, row := range s.FeatureLogProb {
		for j, lp := range row {
			if !finite(lp) {
				return nil, fmt.Errorf("%w: class %d feature %d log probability is %v", ErrInvalidState, c, j, lp)
			}
		}
	}

	m := New(WithAlpha(s.Alpha))
	m.classes = append([]string(nil), s.Classes...)
	m.classLogPrior = append([]float64(nil), s.ClassLogPrior...)
	m.featureLogProb = make([][]float64, k)
	for c, row := range s.FeatureLogProb {
		m.featureLogProb[c] = append([]float64(nil), row...)
	}
	return m, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func distinct(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0)
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func logSumExp(v []float64) float64 {
	hi := math.Inf(-1)
	for _, x := range v {
		if x > hi {
			hi = x
		}
	}
	var sum float64
	for _, x := range v {
		sum += math.Exp(x - hi)
	}
	return hi + math.Log(sum)
}
