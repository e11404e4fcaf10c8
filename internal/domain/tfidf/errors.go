package tfidf

import "errors"

// Sentinel kinds for vectorizer errors.
var (
	ErrNotFitted       = errors.New("vectorizer not fitted")
	ErrEmptyVocabulary = errors.New("empty vocabulary; documents contain no tokens")
	ErrInvalidState    = errors.New("invalid vectorizer state")
)
