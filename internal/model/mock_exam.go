package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExamStatus is the explicit state of a mock-exam session. Sections are
// answered strictly in sequence: Paper 1 sections 1..4, a paper break,
// Paper 2 sections 1..4, then the exam is finished and can be completed.
type ExamStatus string

const (
	ExamNotStarted    ExamStatus = "not_started"
	ExamSectionActive ExamStatus = "section_active"
	ExamSectionBreak  ExamStatus = "section_break"
	ExamPaperBreak    ExamStatus = "paper_break"
	// ExamFinished means every section has closed; only completeExam is
	// legal from here.
	ExamFinished  ExamStatus = "finished"
	ExamCompleted ExamStatus = "completed"
)

// ExamAttempt is one answer slot within a section. Answered=false entries
// are written when a section closes with questions left open.
type ExamAttempt struct {
	QuestionID      string       `json:"question_id"`
	Subject         Subject      `json:"subject"`
	QuestionType    QuestionType `json:"question_type"`
	SubmittedAnswer string       `json:"submitted_answer,omitempty"`
	Correct         bool         `json:"correct"`
	Answered        bool         `json:"answered"`
}

// ExamSection is one timed block of questions for a single subject. Once
// closed its attempts are frozen.
type ExamSection struct {
	Subject       Subject                 `json:"subject"`
	QuestionIDs   []string                `json:"question_ids"`
	QuestionTypes map[string]QuestionType `json:"question_types"`
	TimeLimitSecs int                     `json:"time_limit_seconds"`
	ElapsedSecs   int                     `json:"elapsed_seconds"`
	Closed        bool                    `json:"closed"`
	Attempts      map[string]ExamAttempt  `json:"attempts"`
}

func (sec *ExamSection) hasQuestion(questionID string) bool {
	for _, id := range sec.QuestionIDs {
		if id == questionID {
			return true
		}
	}
	return false
}

// ExamPaper is a fixed sequence of four sections forming one half of a
// mock exam.
type ExamPaper struct {
	Number   int           `json:"number"`
	Sections []ExamSection `json:"sections"`
}

// MockExamSession drives a two-paper timed mock exam. The core runs no
// clock of its own: callers feed it a monotonically non-decreasing elapsed
// seconds figure per section, and expiry triggers the same close path as an
// explicit finish.
type MockExamSession struct {
	ID           string      `gorm:"type:uuid;primarykey" json:"id"`
	UserID       string      `gorm:"not null;index" json:"user_id"`
	Status       ExamStatus  `gorm:"not null;default:'not_started'" json:"status"`
	PaperIndex   int         `json:"paper_index"`
	SectionIndex int         `json:"section_index"`
	Papers       []ExamPaper `gorm:"serializer:json;type:jsonb;not null" json:"papers"`
	StartedAt    *time.Time  `json:"started_at,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (e *MockExamSession) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// CurrentSection returns the open section. Only valid while a section is
// active.
func (e *MockExamSession) CurrentSection() (*ExamSection, error) {
	if e.Status != ExamSectionActive {
		return nil, ErrSessionNotActive
	}
	return &e.Papers[e.PaperIndex].Sections[e.SectionIndex], nil
}

// Begin enters the first section of Paper 1.
func (e *MockExamSession) Begin(now time.Time) error {
	if e.Status == ExamCompleted {
		return ErrAlreadyCompleted
	}
	if e.Status != ExamNotStarted {
		return ErrSessionNotActive
	}
	e.Status = ExamSectionActive
	e.PaperIndex = 0
	e.SectionIndex = 0
	e.StartedAt = &now
	return nil
}

// Submit records an answer for the current section. The elapsed figure is
// applied first: if it has reached the section's limit the section closes
// exactly as a finish request would, and the submission is rejected with
// ErrWrongSection. Submissions for any question outside the current section
// also fail with ErrWrongSection; a second answer for the same question
// fails with ErrDuplicateSubmission. Failed submissions do not mutate the
// attempt set.
func (e *MockExamSession) Submit(attempt ExamAttempt, elapsedSecs int) error {
	if e.Status == ExamCompleted {
		return ErrAlreadyCompleted
	}
	if e.Status != ExamSectionActive {
		return ErrWrongSection
	}

	section := &e.Papers[e.PaperIndex].Sections[e.SectionIndex]
	if elapsedSecs > section.ElapsedSecs {
		section.ElapsedSecs = elapsedSecs
	}
	if section.ElapsedSecs >= section.TimeLimitSecs {
		e.closeCurrentSection()
		return ErrWrongSection
	}

	if !section.hasQuestion(attempt.QuestionID) {
		return ErrWrongSection
	}
	if _, exists := section.Attempts[attempt.QuestionID]; exists {
		return ErrDuplicateSubmission
	}

	if section.Attempts == nil {
		section.Attempts = make(map[string]ExamAttempt)
	}
	attempt.Answered = true
	section.Attempts[attempt.QuestionID] = attempt
	return nil
}

// FinishSection closes the current section on explicit request. An explicit
// finish is always honoured; there is no minimum-answered requirement.
func (e *MockExamSession) FinishSection() (ExamStatus, error) {
	if e.Status == ExamCompleted {
		return e.Status, ErrAlreadyCompleted
	}
	if e.Status != ExamSectionActive {
		return e.Status, ErrSessionNotActive
	}
	e.closeCurrentSection()
	return e.Status, nil
}

// ReportElapsed feeds the section timer. Values below the recorded elapsed
// are ignored; reaching the limit closes the section through the same path
// as FinishSection. Outside an active section the signal is inert.
func (e *MockExamSession) ReportElapsed(elapsedSecs int) (ExamStatus, error) {
	if e.Status != ExamSectionActive {
		return e.Status, nil
	}
	section := &e.Papers[e.PaperIndex].Sections[e.SectionIndex]
	if elapsedSecs > section.ElapsedSecs {
		section.ElapsedSecs = elapsedSecs
	}
	if section.ElapsedSecs >= section.TimeLimitSecs {
		e.closeCurrentSection()
	}
	return e.Status, nil
}

// AdvanceSection leaves a section or paper break and enters the next
// section.
func (e *MockExamSession) AdvanceSection() (ExamStatus, error) {
	switch e.Status {
	case ExamSectionBreak:
		e.SectionIndex++
	case ExamPaperBreak:
		e.PaperIndex++
		e.SectionIndex = 0
	case ExamCompleted:
		return e.Status, ErrAlreadyCompleted
	default:
		return e.Status, ErrSessionNotActive
	}
	e.Status = ExamSectionActive
	return e.Status, nil
}

// closeCurrentSection freezes the section, recording every unanswered
// question as an unattempted incorrect answer, then enters the next break
// or the finished state.
func (e *MockExamSession) closeCurrentSection() {
	paper := &e.Papers[e.PaperIndex]
	section := &paper.Sections[e.SectionIndex]

	if section.Attempts == nil {
		section.Attempts = make(map[string]ExamAttempt)
	}
	for _, qid := range section.QuestionIDs {
		if _, ok := section.Attempts[qid]; !ok {
			section.Attempts[qid] = ExamAttempt{
				QuestionID:   qid,
				Subject:      section.Subject,
				QuestionType: section.QuestionTypes[qid],
				Correct:      false,
				Answered:     false,
			}
		}
	}
	section.Closed = true

	lastSection := e.SectionIndex == len(paper.Sections)-1
	lastPaper := e.PaperIndex == len(e.Papers)-1
	switch {
	case !lastSection:
		e.Status = ExamSectionBreak
	case !lastPaper:
		e.Status = ExamPaperBreak
	default:
		e.Status = ExamFinished
	}
}

// Complete transitions Finished -> Completed. Legal only after the final
// section of Paper 2 has closed; the second call returns
// ErrAlreadyCompleted with no side effects.
func (e *MockExamSession) Complete(now time.Time) error {
	if e.Status == ExamCompleted {
		return ErrAlreadyCompleted
	}
	if e.Status != ExamFinished {
		return ErrSessionNotActive
	}
	e.Status = ExamCompleted
	e.CompletedAt = &now
	return nil
}

// GradedAttempts renders every attempt slot, answered or not, by value for
// the aggregator.
func (e *MockExamSession) GradedAttempts() []GradedAttempt {
	var out []GradedAttempt
	for _, paper := range e.Papers {
		for _, section := range paper.Sections {
			for _, qid := range section.QuestionIDs {
				a, ok := section.Attempts[qid]
				if !ok {
					continue
				}
				out = append(out, GradedAttempt{
					QuestionID:   a.QuestionID,
					Subject:      a.Subject,
					QuestionType: a.QuestionType,
					Correct:      a.Correct,
					Answered:     a.Answered,
				})
			}
		}
	}
	return out
}

// SectionResult is one section's slice of a mock-exam result.
type SectionResult struct {
	Subject      Subject `json:"subject"`
	Total        int     `json:"total"`
	Correct      int     `json:"correct"`
	Accuracy     float64 `json:"accuracy"`
	TimeUsedSecs int     `json:"time_used_seconds"`
}

// PaperResult aggregates one paper.
type PaperResult struct {
	Number            int             `json:"number"`
	Sections          []SectionResult `json:"sections"`
	Total             int             `json:"total"`
	Correct           int             `json:"correct"`
	Accuracy          float64         `json:"accuracy"`
	StandardizedScore int             `json:"standardized_score"`
}

// SubjectResult aggregates one subject across both papers.
type SubjectResult struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// MockExamResult is the full breakdown produced by completing an exam.
type MockExamResult struct {
	ExamID           string                    `json:"exam_id"`
	UserID           string                    `json:"user_id"`
	Papers           []PaperResult             `json:"papers"`
	TotalQuestions   int                       `json:"total_questions"`
	TotalCorrect     int                       `json:"total_correct"`
	OverallAccuracy  float64                   `json:"overall_accuracy"`
	SubjectBreakdown map[Subject]SubjectResult `json:"subject_breakdown"`
	CompletedAt      *time.Time                `json:"completed_at,omitempty"`
}

// Result aggregates per-section, per-paper and per-subject correctness.
func (e *MockExamSession) Result() MockExamResult {
	res := MockExamResult{
		ExamID:           e.ID,
		UserID:           e.UserID,
		SubjectBreakdown: make(map[Subject]SubjectResult),
		CompletedAt:      e.CompletedAt,
	}

	for _, paper := range e.Papers {
		pr := PaperResult{Number: paper.Number}
		for _, section := range paper.Sections {
			sr := SectionResult{
				Subject:      section.Subject,
				Total:        len(section.QuestionIDs),
				TimeUsedSecs: section.ElapsedSecs,
			}
			for _, qid := range section.QuestionIDs {
				if a, ok := section.Attempts[qid]; ok && a.Correct {
					sr.Correct++
				}
			}
			if sr.Total > 0 {
				sr.Accuracy = float64(sr.Correct) / float64(sr.Total)
			}
			pr.Sections = append(pr.Sections, sr)
			pr.Total += sr.Total
			pr.Correct += sr.Correct

			sb := res.SubjectBreakdown[section.Subject]
			sb.Total += sr.Total
			sb.Correct += sr.Correct
			res.SubjectBreakdown[section.Subject] = sb
		}
		if pr.Total > 0 {
			pr.Accuracy = float64(pr.Correct) / float64(pr.Total)
		}
		pr.StandardizedScore = StandardizedScore(pr.Correct, pr.Total)
		res.Papers = append(res.Papers, pr)
		res.TotalQuestions += pr.Total
		res.TotalCorrect += pr.Correct
	}

	for subject, sb := range res.SubjectBreakdown {
		if sb.Total > 0 {
			sb.Accuracy = float64(sb.Correct) / float64(sb.Total)
			res.SubjectBreakdown[subject] = sb
		}
	}
	if res.TotalQuestions > 0 {
		res.OverallAccuracy = float64(res.TotalCorrect) / float64(res.TotalQuestions)
	}
	return res
}

// StandardizedScore converts a raw paper mark to the 69-141 standardized
// band used on 11+ reports, via a piecewise-linear table.
func StandardizedScore(correct, total int) int {
	if total == 0 {
		return 0
	}
	pct := float64(correct) / float64(total) * 100

	var score float64
	switch {
	case pct <= 10:
		score = 69 + pct*0.6
	case pct <= 30:
		score = 75 + (pct-10)*0.75
	case pct <= 50:
		score = 90 + (pct-30)*0.75
	case pct <= 70:
		score = 105 + (pct-50)*0.75
	case pct <= 90:
		score = 120 + (pct-70)*0.75
	default:
		score = 135 + (pct-90)*0.6
	}

	if score > 141 {
		score = 141
	}
	return int(score + 0.5)
}
