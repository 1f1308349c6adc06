// Package store issues the parameterized statements behind every endpoint.
package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/qaboard/models"
)

// Store wraps the shared gorm handle. It holds no per-request state.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

// New returns a Store over db. A positive queryTimeout bounds each call.
func New(db *gorm.DB, queryTimeout time.Duration) *Store {
	return &Store{db: db, timeout: queryTimeout}
}

// conn binds ctx (and the optional timeout) to a session on the shared handle.
func (s *Store) conn(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		return s.db.WithContext(ctx), cancel
	}
	return s.db.WithContext(ctx), func() {}
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return sqlDB.PingContext(ctx)
}

// Stats holds row counts for the dashboard endpoint.
type Stats struct {
	Questions     int64 `json:"questions"`
	Answers       int64 `json:"answers"`
	QuestionVotes int64 `json:"question_votes"`
	AnswerVotes   int64 `json:"answer_votes"`
}

// Stats counts rows in every table.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var st Stats
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Question{}, &st.Questions},
		{&models.Answer{}, &st.Answers},
		{&models.QuestionVote{}, &st.QuestionVotes},
		{&models.AnswerVote{}, &st.AnswerVotes},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Count(c.dst).Error; err != nil {
			return Stats{}, translate("count rows", err)
		}
	}
	return st, nil
}
