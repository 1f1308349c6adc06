package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/cppla/qaboard/models"
)

const tallySelect = "COUNT(CASE WHEN vote = ? THEN 1 END) AS upvotes, COUNT(CASE WHEN vote = ? THEN 1 END) AS downvotes"

type tally struct {
	Upvotes   int64
	Downvotes int64
}

// VoteQuestion records one vote for question id and returns the question with
// its fresh tallies. Insert and re-read run in one transaction.
func (s *Store) VoteQuestion(ctx context.Context, id uint, vote int) (models.QuestionWithVotes, error) {
	if err := checkVote(vote); err != nil {
		return models.QuestionWithVotes{}, err
	}
	db, cancel := s.conn(ctx)
	defer cancel()

	var out models.QuestionWithVotes
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.QuestionVote{QuestionID: id, Vote: vote}).Error; err != nil {
			return err
		}
		if err := tx.First(&out.Question, id).Error; err != nil {
			return err
		}
		var t tally
		if err := tx.Model(&models.QuestionVote{}).
			Select(tallySelect, models.Upvote, models.Downvote).
			Where("question_id = ?", id).
			Scan(&t).Error; err != nil {
			return err
		}
		out.Upvotes, out.Downvotes = t.Upvotes, t.Downvotes
		return nil
	})
	if err != nil {
		return models.QuestionWithVotes{}, translate("vote question", err)
	}
	return out, nil
}

// VoteAnswer records one vote for answer id and returns the answer with its
// fresh tallies.
func (s *Store) VoteAnswer(ctx context.Context, id uint, vote int) (models.AnswerWithVotes, error) {
	if err := checkVote(vote); err != nil {
		return models.AnswerWithVotes{}, err
	}
	db, cancel := s.conn(ctx)
	defer cancel()

	var out models.AnswerWithVotes
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&models.AnswerVote{AnswerID: id, Vote: vote}).Error; err != nil {
			return err
		}
		if err := tx.First(&out.Answer, id).Error; err != nil {
			return err
		}
		var t tally
		if err := tx.Model(&models.AnswerVote{}).
			Select(tallySelect, models.Upvote, models.Downvote).
			Where("answer_id = ?", id).
			Scan(&t).Error; err != nil {
			return err
		}
		out.Upvotes, out.Downvotes = t.Upvotes, t.Downvotes
		return nil
	})
	if err != nil {
		return models.AnswerWithVotes{}, translate("vote answer", err)
	}
	return out, nil
}

func checkVote(vote int) error {
	if vote != models.Upvote && vote != models.Downvote {
		return fmt.Errorf("invalid vote value %d", vote)
	}
	return nil
}
