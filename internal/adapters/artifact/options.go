package artifact

import "github.com/klauspost/compress/zstd"

// DefaultPath is where the trainer writes the model unless configured otherwise.
const DefaultPath = "ml-model/model.bin"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithPath sets the artifact location.
func WithPath(path string) Option {
	return func(s *FileStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithCompressionLevel sets the zstd encoder level.
func WithCompressionLevel(level zstd.EncoderLevel) Option {
	return func(s *FileStore) {
		s.level = level
	}
}
