package source

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/okian/memoclass/internal/domain/model"
)

const (
	memosQuery = `
		SELECT content, classification
		FROM "Memos"
		ORDER BY id`

	// The newest non-null correction for a memo wins over its stored label.
	memosWithFeedbackQuery = `
		SELECT m.content AS content,
		       COALESCE((
		           SELECT f.correct_classification
		           FROM "Feedbacks" f
		           WHERE f.memo_id = m.id AND f.correct_classification IS NOT NULL
		           ORDER BY f.created_at DESC, f.id DESC
		           LIMIT 1
		       ), m.classification) AS classification
		FROM "Memos" m
		ORDER BY m.id`
)

// SQLSource reads memos from the application database.
type SQLSource struct {
	db       *sqlx.DB
	driver   string
	feedback bool
}

// NewSQLSource connects to dsn with the given database/sql driver name.
func NewSQLSource(ctx context.Context, driver, dsn string, opts ...Option) (*SQLSource, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %w", ErrUnavailable, driver, err)
	}
	return newSQLSource(db, driver, opts...), nil
}

func newSQLSource(db *sqlx.DB, driver string, opts ...Option) *SQLSource {
	s := &SQLSource{db: db, driver: driver}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns all memos as a dataset.
func (s *SQLSource) Fetch(ctx context.Context) (model.Dataset, error) {
	query := memosQuery
	if s.feedback {
		query = memosWithFeedbackQuery
	}
	var records []model.TrainingRecord
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return model.Dataset{}, fmt.Errorf("%w: query %s memos: %w", ErrUnavailable, s.driver, err)
	}
	return model.FromRecords(records), nil
}

// Close releases the connection pool.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
