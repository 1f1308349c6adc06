package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/qaboard/models"
)

// QuestionInput carries the fields a client supplies on create and full update.
type QuestionInput struct {
	Title       string
	Description string
	Category    string
}

// QuestionFilter narrows ListQuestions. Empty fields match everything.
type QuestionFilter struct {
	Title    string
	Category string
}

// CreateQuestion inserts a question stamped with the current time.
func (s *Store) CreateQuestion(ctx context.Context, in QuestionInput) (models.Question, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	now := time.Now()
	q := models.Question{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(&q).Error; err != nil {
		return models.Question{}, translate("create question", err)
	}
	return q, nil
}

// ListQuestions returns questions whose title and category contain the filter
// values, compared case-insensitively.
func (s *Store) ListQuestions(ctx context.Context, f QuestionFilter) ([]models.Question, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	query := db.Model(&models.Question{})
	if f.Title != "" {
		query = query.Where("UPPER(title) LIKE UPPER(?)", "%"+f.Title+"%")
	}
	if f.Category != "" {
		query = query.Where("UPPER(category) LIKE UPPER(?)", "%"+f.Category+"%")
	}

	questions := make([]models.Question, 0)
	if err := query.Order("id ASC").Find(&questions).Error; err != nil {
		return nil, translate("list questions", err)
	}
	return questions, nil
}

// GetQuestion loads one question by id.
func (s *Store) GetQuestion(ctx context.Context, id uint) (models.Question, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var q models.Question
	if err := db.First(&q, id).Error; err != nil {
		return models.Question{}, translate("get question", err)
	}
	return q, nil
}

// UpdateQuestion replaces every client-owned field and refreshes updated_at.
func (s *Store) UpdateQuestion(ctx context.Context, id uint, in QuestionInput) (models.Question, error) {
	db, cancel := s.conn(ctx)
	defer cancel()

	var q models.Question
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Question{}).Where("id = ?", id).Updates(map[string]interface{}{
			"title":       in.Title,
			"description": in.Description,
			"category":    in.Category,
			"updated_at":  time.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.First(&q, id).Error
	})
	if err != nil {
		return models.Question{}, translate("update question", err)
	}
	return q, nil
}

// DeleteQuestion removes one question. Answers and votes go with it through
// the schema's cascading foreign keys.
func (s *Store) DeleteQuestion(ctx context.Context, id uint) error {
	db, cancel := s.conn(ctx)
	defer cancel()

	res := db.Delete(&models.Question{}, id)
	if res.Error != nil {
		return translate("delete question", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("delete question", ErrNotFound)
	}
	return nil
}
