package store

import (
	"context"
	"time"

	"github.com/cppla/qaboard/models"
)

// CreateAnswer attaches an answer to questionID. A missing question surfaces
// as ErrNotFound through the foreign key.
func (s *Store) CreateAnswer(ctx context.Context, questionID uint, content string) (models.Answer, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	now := time.Now()
	a := models.Answer{
		QuestionID: questionID,
		Content:    content,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.Create(&a).Error; err != nil {
		return models.Answer{}, translate("create answer", err)
	}
	return a, nil
}

// ListAnswers returns every answer of questionID, oldest first.
func (s *Store) ListAnswers(ctx context.Context, questionID uint) ([]models.Answer, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	answers := make([]models.Answer, 0)
	if err := db.Where("question_id = ?", questionID).Order("id ASC").Find(&answers).Error; err != nil {
		return nil, translate("list answers", err)
	}
	return answers, nil
}
