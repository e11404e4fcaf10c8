// Package tfidf implements a term-frequency x inverse-document-frequency vectorizer.
package tfidf

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/memoclass/internal/domain/text"
)

// Vector is a sparse document row. Indices are ascending feature ids.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the inner product of the row with a dense weight slice.
func (v Vector) Dot(dense []float64) float64 {
	var sum float64
	for k, j := range v.Indices {
		sum += v.Values[k] * dense[j]
	}
	return sum
}

// Len returns the number of non-zero entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// State is the learned vectorizer data: term -> feature id and the idf table.
type State struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// Vectorizer learns a vocabulary and idf weights, then maps documents to
// L2-normalised tf-idf rows. Terms not seen during Fit are ignored.
type Vectorizer struct {
	tokenize   func(string) []string
	vocabulary map[string]int
	idf        []float64
}

// New creates an unfitted vectorizer.
func New(opts ...Option) *Vectorizer {
	v := &Vectorizer{tokenize: text.Tokenize}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Fit builds the vocabulary over docs and computes smoothed idf:
// idf(t) = ln((1+n)/(1+df(t))) + 1.
func (v *Vectorizer) Fit(docs []string) error {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range v.tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, t := range terms {
		vocab[t] = i
		idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	v.vocabulary = vocab
	v.idf = idf
	return nil
}

// Transform maps docs onto the fitted vocabulary.
func (v *Vectorizer) Transform(docs []string) ([]Vector, error) {
	if v.vocabulary == nil {
		return nil, ErrNotFitted
	}
	rows := make([]Vector, len(docs))
	for i, doc := range docs {
		rows[i] = v.row(doc)
	}
	return rows, nil
}

// FitTransform fits on docs and returns their rows.
func (v *Vectorizer) FitTransform(docs []string) ([]Vector, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}

func (v *Vectorizer) row(doc string) Vector {
	counts := make(map[int]float64)
	for _, tok := range v.tokenize(doc) {
		if j, ok := v.vocabulary[tok]; ok {
			counts[j]++
		}
	}
	idx := make([]int, 0, len(counts))
	for j := range counts {
		idx = append(idx, j)
	}
	sort.Ints(idx)

	vals := make([]float64, len(idx))
	var norm float64
	for k, j := range idx {
		w := counts[j] * v.idf[j]
		vals[k] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range vals {
			vals[k] /= norm
		}
	}
	return Vector{Indices: idx, Values: vals}
}

// Features returns the vocabulary size, 0 before Fit.
func (v *Vectorizer) Features() int {
	return len(v.idf)
}

// State exports a copy of the learned tables.
func (v *Vectorizer) State() (State, error) {
	if v.vocabulary == nil {
		return State{}, ErrNotFitted
	}
	vocab := make(map[string]int, len(v.vocabulary))
	for t, j := range v.vocabulary {
		vocab[t] = j
	}
	idf := make([]float64, len(v.idf))
	copy(idf, v.idf)
	return State{Vocabulary: vocab, IDF: idf}, nil
}

// FromState restores a fitted vectorizer from exported tables.
func FromState(s State, opts ...Option) (*Vectorizer, error) {
	if len(s.Vocabulary) == 0 || len(s.Vocabulary) != len(s.IDF) {
		return nil, fmt.Errorf("%w: %d terms, %d idf weights", ErrInvalidState, len(s.Vocabulary), len(s.IDF))
	}
	used := make([]bool, len(s.IDF))
	for t, j := range s.Vocabulary {
		if j < 0 || j >= len(s.IDF) || used[j] {
			return nil, fmt.Errorf("%w: bad index %d for term %q", ErrInvalidState, j, t)
		}
		used[j] = true
	}
	v := New(opts...)
	v.vocabulary = make(map[string]int, len(s.Vocabulary))
	for t, j := range s.Vocabulary {
		v.vocabulary[t] = j
	}
	v.idf = make([]float64, len(s.IDF))
	copy(v.idf, s.IDF)
	return v, nil
}
