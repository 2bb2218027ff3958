package model

import (
	"time"

	"gorm.io/datatypes"
)

// Attempt is one graded submission inside a practice session. Immutable
// once created.
type Attempt struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	SessionID       string         `gorm:"type:uuid;not null;index" json:"session_id"`
	QuestionID      string         `gorm:"type:uuid;not null;index" json:"question_id"`
	Subject         Subject        `gorm:"not null" json:"subject"`
	QuestionType    QuestionType   `gorm:"not null" json:"question_type"`
	SubmittedAnswer datatypes.JSON `json:"submitted_answer"`
	HintsUsed       int            `json:"hints_used"`
	TimeTakenSecs   int            `json:"time_taken_seconds"`
	Correct         bool           `json:"correct"`
	Score           float64        `json:"score"`
	CreatedAt       time.Time      `json:"created_at"`
}

// GradedAttempt is the by-value form handed to the mastery aggregator when
// a session completes. Sessions and mastery records share no mutable state.
type GradedAttempt struct {
	QuestionID   string
	Subject      Subject
	QuestionType QuestionType
	Correct      bool
	Answered     bool
}
