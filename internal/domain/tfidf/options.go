package tfidf

// Option applies a configuration option to the Vectorizer.
type Option func(*Vectorizer)

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(fn func(string) []string) Option {
	return func(v *Vectorizer) {
		if fn != nil {
			v.tokenize = fn
		}
	}
}
