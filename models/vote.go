package models

import "time"

// Vote directions. Votes are append-only; tallies are counted on read.
const (
	Upvote   = 1
	Downvote = -1
)

// QuestionVote records one vote on a question.
type QuestionVote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	Vote       int       `gorm:"not null" json:"vote"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnswerVote records one vote on an answer.
type AnswerVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AnswerID  uint      `gorm:"index;not null" json:"answer_id"`
	Vote      int       `gorm:"not null" json:"vote"`
	CreatedAt time.Time `json:"created_at"`
}

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{&Question{}, &Answer{}, &QuestionVote{}, &AnswerVote{}}
}
