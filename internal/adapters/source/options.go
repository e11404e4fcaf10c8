package source

// Option applies a configuration option to the SQLSource.
type Option func(*SQLSource)

// WithFeedback makes the source prefer the latest reviewer correction over a
// memo's stored classification.
func WithFeedback(enabled bool) Option {
	return func(s *SQLSource) {
		s.feedback = enabled
	}
}
