package dto

import (
	"encoding/json"
	"time"
)

// MockExamCreateDTO starts a new two-paper mock exam.
type MockExamCreateDTO struct {
	UserID string `json:"user_id" binding:"required"`
}

// MockExamDTO is the exam session view.
type MockExamDTO struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Status       string     `json:"status"`
	PaperNumber  int        `json:"paper_number"`
	SectionIndex int        `json:"section_index"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// SectionViewDTO describes the exam's current section for the client.
type SectionViewDTO struct {
	ExamID         string                `json:"exam_id"`
	Status         string                `json:"status"`
	PaperNumber    int                   `json:"paper_number"`
	SectionIndex   int                   `json:"section_index"`
	Subject        string                `json:"subject"`
	TimeLimitSecs  int                   `json:"time_limit_seconds"`
	ElapsedSecs    int                   `json:"elapsed_seconds"`
	QuestionIDs    []string              `json:"question_ids"`
	AnsweredIDs    []string              `json:"answered_ids,omitempty"`
	Questions      []QuestionResponseDTO `json:"questions,omitempty"`
}

// ExamAnswerDTO submits one answer during an active section. The elapsed
// figure is the caller-observed section clock.
type ExamAnswerDTO struct {
	QuestionID  string          `json:"question_id" binding:"required"`
	Answer      json.RawMessage `json:"answer" binding:"required"`
	ElapsedSecs int             `json:"elapsed_seconds" binding:"omitempty,min=0"`
}

// ExamAnswerResultDTO reports whether the submission was accepted and the
// exam state after it.
type ExamAnswerResultDTO struct {
	Accepted bool   `json:"accepted"`
	Status   string `json:"status"`
}

// ElapsedDTO is the timer signal body.
type ElapsedDTO struct {
	ElapsedSecs int `json:"elapsed_seconds" binding:"min=0"`
}

// ExamStateDTO is the state returned by the transition endpoints.
type ExamStateDTO struct {
	ExamID       string `json:"exam_id"`
	Status       string `json:"status"`
	PaperNumber  int    `json:"paper_number"`
	SectionIndex int    `json:"section_index"`
}

// SectionResultDTO, PaperResultDTO and MockExamResultDTO mirror the result
// aggregation of a completed exam.
type SectionResultDTO struct {
	Subject      string  `json:"subject"`
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	Accuracy     float64 `json:"accuracy"`
	TimeUsedSecs int     `json:"time_used_seconds"`
}

type PaperResultDTO struct {
	Number            int                `json:"number"`
	Sections          []SectionResultDTO `json:"sections"`
	Total             int                `json:"total"`
	Correct           int                `json:"correct"`
	Accuracy          float64            `json:"accuracy"`
	StandardizedScore int                `json:"standardized_score"`
}

type SubjectResultDTO struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type MockExamResultDTO struct {
	ExamID           string                      `json:"exam_id"`
	UserID           string                      `json:"user_id"`
	Papers           []PaperResultDTO            `json:"papers"`
	TotalQuestions   int                         `json:"total_questions"`
	TotalCorrect     int                         `json:"total_correct"`
	OverallAccuracy  float64                     `json:"overall_accuracy"`
	SubjectBreakdown map[string]SubjectResultDTO `json:"subject_breakdown"`
	CompletedAt      *time.Time                  `json:"completed_at,omitempty"`
}
