package models

import "time"

// Question is a top-level item that answers and votes attach to.
type Question struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Category    string         `gorm:"size:255;not null;index" json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Answers     []Answer       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Votes       []QuestionVote `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// QuestionWithVotes is a question enriched with its vote tallies.
type QuestionWithVotes struct {
	Question
	Upvotes   int64 `json:"upvotes"`
	Downvotes int64 `json:"downvotes"`
}
