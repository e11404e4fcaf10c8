// Package artifact persists fitted models as a single compressed file.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/okian/memoclass/internal/domain/pipeline"
)

// Meta describes the run that produced an artifact.
type Meta struct {
	RunID     string    `json:"run_id"`
	TrainedAt time.Time `json:"trained_at"`
	Records   int       `json:"records"`
	Classes   []string  `json:"classes"`
}

// Artifact is the on-disk model: run metadata plus the fitted tables.
type Artifact struct {
	Meta  Meta              `json:"meta"`
	Model pipeline.Snapshot `json:"model"`
}

// Store saves and loads artifacts.
type Store interface {
	// Save replaces the stored artifact and returns the number of bytes written.
	Save(ctx context.Context, a Artifact) (int64, error)
	Load(ctx context.Context) (Artifact, error)
	Path() string
}

const defaultFileMode os.FileMode = 0o644

// FileStore keeps one artifact at a fixed path. The file is zstd-compressed JSON.
type FileStore struct {
	path  string
	level zstd.EncoderLevel
}

// NewFileStore creates a store for DefaultPath unless WithPath is given.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{
		path:  DefaultPath,
		level: zstd.SpeedDefault,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the artifact location.
func (s *FileStore) Path() string {
	return s.path
}

// Save writes a to a temp file next to the target and renames it into place.
// A failed save leaves any previous artifact untouched.
func (s *FileStore) Save(ctx context.Context, a Artifact) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("%w: create dir: %w", ErrWrite, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("%w: create temp: %w", ErrWrite, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	enc, err := zstd.NewWriter(tmp, zstd.WithEncoderLevel(s.level))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := json.NewEncoder(enc).Encode(a); err != nil {
		_ = enc.Close()
		return 0, fmt.Errorf("%w: encode: %w", ErrWrite, err)
	}
	if err := enc.Close(); err != nil {
		return 0, fmt.Errorf("%w: compress: %w", ErrWrite, err)
	}
	if err := tmp.Chmod(s.fileMode()); err != nil {
		return 0, fmt.Errorf("%w: chmod: %w", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync: %w", ErrWrite, err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: stat: %w", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("%w: close: %w", ErrWrite, err)
	}
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return 0, fmt.Errorf("%w: rename: %w", ErrWrite, err)
	}
	committed = true
	return info.Size(), nil
}

// fileMode keeps the permissions of an artifact being replaced; new
// artifacts are world-readable.
func (s *FileStore) fileMode() os.FileMode {
	if info, err := os.Stat(s.path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return defaultFileMode
}

// Load reads and decodes the artifact.
func (s *FileStore) Load(ctx context.Context) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer func() { _ = f.Close() }()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	defer dec.Close()

	var a Artifact
	if err := json.NewDecoder(dec).Decode(&a); err != nil {
		return Artifact{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return a, nil
}

// LoadPipeline reads the artifact and rebuilds the fitted pipeline.
func (s *FileStore) LoadPipeline(ctx context.Context) (*pipeline.Pipeline, Meta, error) {
	a, err := s.Load(ctx)
	if err != nil {
		return nil, Meta{}, err
	}
	p, err := pipeline.FromSnapshot(a.Model)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return p, a.Meta, nil
}
