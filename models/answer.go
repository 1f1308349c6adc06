package models

import "time"

// MaxAnswerLength is the longest answer content accepted, in characters.
const MaxAnswerLength = 300

// Answer belongs to exactly one question.
type Answer struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	QuestionID uint         `gorm:"index;not null" json:"question_id"`
	Content    string       `gorm:"size:1200;not null" json:"content"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
	Votes      []AnswerVote `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// AnswerWithVotes is an answer enriched with its vote tallies.
type AnswerWithVotes struct {
	Answer
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}
