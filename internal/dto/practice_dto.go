package dto

import (
	"encoding/json"
	"time"
)

// PracticeSessionCreateDTO starts a practice session. Filters are optional;
// the question list is fixed at creation.
type PracticeSessionCreateDTO struct {
	UserID       string `json:"user_id" binding:"required"`
	Subject      string `json:"subject,omitempty"`
	QuestionType string `json:"question_type,omitempty"`
	Difficulty   int    `json:"difficulty,omitempty" binding:"omitempty,min=1,max=5"`
	NumQuestions int    `json:"num_questions,omitempty" binding:"omitempty,min=1,max=50"`
}

// PracticeAnswerDTO submits one answer within a session.
type PracticeAnswerDTO struct {
	QuestionID    string          `json:"question_id" binding:"required"`
	Answer        json.RawMessage `json:"answer" binding:"required"`
	HintsUsed     int             `json:"hints_used" binding:"omitempty,min=0"`
	TimeTakenSecs int             `json:"time_taken_seconds" binding:"omitempty,min=0"`
}

// PracticeAnswerResultDTO is the graded outcome of one submission.
type PracticeAnswerResultDTO struct {
	Correct       bool    `json:"correct"`
	Score         float64 `json:"score"`
	CorrectAnswer any     `json:"correct_answer"`
	Explanation   string  `json:"explanation,omitempty"`
}

// AttemptDTO is one recorded attempt in a session view.
type AttemptDTO struct {
	QuestionID    string    `json:"question_id"`
	HintsUsed     int       `json:"hints_used"`
	TimeTakenSecs int       `json:"time_taken_seconds"`
	Correct       bool      `json:"correct"`
	Score         float64   `json:"score"`
	CreatedAt     time.Time `json:"created_at"`
}

// PracticeSessionDTO is the session view returned to clients.
type PracticeSessionDTO struct {
	ID           string       `json:"id"`
	UserID       string       `json:"user_id"`
	Subject      string       `json:"subject,omitempty"`
	QuestionType string       `json:"question_type,omitempty"`
	QuestionIDs  []string     `json:"question_ids"`
	Attempts     []AttemptDTO `json:"attempts,omitempty"`
	Status       string       `json:"status"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
}

// SessionResultDTO is the summary emitted by complete.
type SessionResultDTO struct {
	SessionID        string                    `json:"session_id"`
	Subject          string                    `json:"subject,omitempty"`
	TotalQuestions   int                       `json:"total_questions"`
	Answered         int                       `json:"answered"`
	CorrectAnswers   int                       `json:"correct_answers"`
	Accuracy         float64                   `json:"accuracy"`
	TotalScore       float64                   `json:"total_score"`
	TimeTakenMinutes float64                   `json:"time_taken_minutes"`
	QuestionsByType  map[string]TypeBreakdown  `json:"questions_by_type"`
	Strengths        []string                  `json:"strengths,omitempty"`
	AreasToImprove   []string                  `json:"areas_to_improve,omitempty"`
}

// TypeBreakdown is the per-question-type attempted/correct pair.
type TypeBreakdown struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
}
