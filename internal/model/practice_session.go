package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStatus is the explicit state of a practice session.
type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// PracticeSession owns the lifecycle of one practice run: a fixed, ordered
// question list chosen at creation and at most one attempt per question.
// A completed session is immutable.
type PracticeSession struct {
	ID           string        `gorm:"type:uuid;primarykey" json:"id"`
	UserID       string        `gorm:"not null;index" json:"user_id"`
	Subject      *Subject      `json:"subject,omitempty"`
	QuestionType *QuestionType `json:"question_type,omitempty"`
	QuestionIDs  []string      `gorm:"serializer:json;type:jsonb;not null" json:"question_ids"`
	Attempts     []Attempt     `gorm:"foreignKey:SessionID" json:"attempts,omitempty"`
	Status       SessionStatus `gorm:"not null;default:'active'" json:"status"`
	StartedAt    time.Time     `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (s *PracticeSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (s *PracticeSession) hasQuestion(questionID string) bool {
	for _, id := range s.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

func (s *PracticeSession) hasAttempt(questionID string) bool {
	for _, a := range s.Attempts {
		if a.QuestionID == questionID {
			return true
		}
	}
	return false
}

// CanSubmit reports whether a submission for the question is a legal
// transition. It returns a named error and implies no mutation otherwise.
func (s *PracticeSession) CanSubmit(questionID string) error {
	if s.Status != SessionActive {
		return ErrSessionNotActive
	}
	if !s.hasQuestion(questionID) {
		return ErrQuestionNotInSession
	}
	if s.hasAttempt(questionID) {
		return ErrDuplicateSubmission
	}
	return nil
}

// AddAttempt records a graded attempt after re-checking the transition is
// legal. On error the session is unchanged.
func (s *PracticeSession) AddAttempt(attempt Attempt) error {
	if err := s.CanSubmit(attempt.QuestionID); err != nil {
		return err
	}
	attempt.SessionID = s.ID
	s.Attempts = append(s.Attempts, attempt)
	return nil
}

// Complete transitions Active -> Completed. The second call returns
// ErrAlreadyCompleted without side effects, which keeps the downstream
// mastery emission at-most-once.
func (s *PracticeSession) Complete(now time.Time) error {
	if s.Status == SessionCompleted {
		return ErrAlreadyCompleted
	}
	if s.Status != SessionActive {
		return ErrSessionNotActive
	}
	s.Status = SessionCompleted
	s.CompletedAt = &now
	return nil
}

// NextQuestionID returns the first question in session order that has no
// attempt yet.
func (s *PracticeSession) NextQuestionID() (string, bool) {
	for _, id := range s.QuestionIDs {
		if !s.hasAttempt(id) {
			return id, true
		}
	}
	return "", false
}

// GradedAttempts renders the attempt set by value for the aggregator.
func (s *PracticeSession) GradedAttempts() []GradedAttempt {
	out := make([]GradedAttempt, 0, len(s.Attempts))
	for _, a := range s.Attempts {
		out = append(out, GradedAttempt{
			QuestionID:   a.QuestionID,
			Subject:      a.Subject,
			QuestionType: a.QuestionType,
			Correct:      a.Correct,
			Answered:     true,
		})
	}
	return out
}

// TypeBreakdown is the per-question-type slice of a session result.
type TypeBreakdown struct {
	Attempted int `json:"attempted"`
	Correct   int `json:"correct"`
}

// SessionResult is the summary computed when a practice session completes.
// Accuracy counts correctness; TotalScore sums hint-penalised scores.
type SessionResult struct {
	SessionID        string                         `json:"session_id"`
	Subject          *Subject                       `json:"subject,omitempty"`
	TotalQuestions   int                            `json:"total_questions"`
	Answered         int                            `json:"answered"`
	CorrectAnswers   int                            `json:"correct_answers"`
	Accuracy         float64                        `json:"accuracy"`
	TotalScore       float64                        `json:"total_score"`
	TimeTakenMinutes float64                        `json:"time_taken_minutes"`
	ByType           map[QuestionType]TypeBreakdown `json:"questions_by_type"`
	Strengths        []QuestionType                 `json:"strengths"`
	AreasToImprove   []QuestionType                 `json:"areas_to_improve"`
}

// Result computes the session-level statistics. Safe to call on an active
// session too (partial figures).
func (s *PracticeSession) Result() SessionResult {
	res := SessionResult{
		SessionID:      s.ID,
		Subject:        s.Subject,
		TotalQuestions: len(s.QuestionIDs),
		Answered:       len(s.Attempts),
		ByType:         make(map[QuestionType]TypeBreakdown),
	}

	for _, a := range s.Attempts {
		b := res.ByType[a.QuestionType]
		b.Attempted++
		if a.Correct {
			b.Correct++
			res.CorrectAnswers++
		}
		res.ByType[a.QuestionType] = b
		res.TotalScore += a.Score
	}

	if res.Answered > 0 {
		res.Accuracy = float64(res.CorrectAnswers) / float64(res.Answered)
	}
	if s.CompletedAt != nil {
		res.TimeTakenMinutes = s.CompletedAt.Sub(s.StartedAt).Minutes()
	}

	for qtype, b := range res.ByType {
		accuracy := float64(b.Correct) / float64(b.Attempted)
		switch {
		case accuracy >= 0.8:
			res.Strengths = append(res.Strengths, qtype)
		case accuracy < 0.5:
			res.AreasToImprove = append(res.AreasToImprove, qtype)
		}
	}
	sortTypes(res.Strengths)
	sortTypes(res.AreasToImprove)

	return res
}

// sortTypes keeps type lists in a stable order; map iteration is random.
func sortTypes(types []QuestionType) {
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
}
