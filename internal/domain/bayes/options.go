package bayes

// Default additive smoothing constant.
const defaultAlpha = 1.0

// Option applies a configuration option to the Multinomial classifier.
type Option func(*Multinomial)

// WithAlpha sets the additive smoothing constant. Non-positive values are ignored.
func WithAlpha(alpha float64) Option {
	return func(m *Multinomial) {
		if alpha > 0 {
			m.alpha = alpha
		}
	}
}
