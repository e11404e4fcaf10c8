package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/okian/memoclass/internal/domain/model"
)

// FileSource reads a YAML dataset. The file holds either the two columns
//
//	content: [...]
//	classification: [...]
//
// or a list of rows under records:.
type FileSource struct {
	path string
}

type fileDataset struct {
	Content        []string               `yaml:"content"`
	Classification []string               `yaml:"classification"`
	Records        []model.TrainingRecord `yaml:"records"`
}

// NewFileSource creates a source for the dataset at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch reads the file on every call. Columns are returned unchecked.
func (s *FileSource) Fetch(ctx context.Context) (model.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var f fileDataset
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: %s: %w", ErrMalformed, s.path, err)
	}
	hasColumns := len(f.Content) > 0 || len(f.Classification) > 0
	switch {
	case hasColumns && len(f.Records) > 0:
		return model.Dataset{}, fmt.Errorf("%w: %s: both columns and records given", ErrMalformed, s.path)
	case len(f.Records) > 0:
		return model.FromRecords(f.Records), nil
	default:
		return model.Dataset{Content: f.Content, Classification: f.Classification}, nil
	}
}

// Close is a no-op.
func (s *FileSource) Close() error {
	return nil
}
