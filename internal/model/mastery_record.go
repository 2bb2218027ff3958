package model

import "time"

// MasteryRecord is the rolling statistic for one (user, subject,
// question-type) tuple. Counters only ever increase; the mastery score is
// recomputed from the lifetime counters on every update, never stored as an
// independently decaying value.
type MasteryRecord struct {
	ID             uint         `gorm:"primarykey" json:"id"`
	UserID         string       `gorm:"not null;uniqueIndex:idx_user_subject_type" json:"user_id"`
	Subject        Subject      `gorm:"not null;uniqueIndex:idx_user_subject_type" json:"subject"`
	QuestionType   QuestionType `gorm:"not null;uniqueIndex:idx_user_subject_type" json:"question_type"`
	TotalAttempted int          `json:"total_attempted"`
	TotalCorrect   int          `json:"total_correct"`
	MasteryScore   float64      `json:"mastery_score"`
	Streak         int          `json:"streak"`
	CurrentLevel   int          `gorm:"default:1" json:"current_level"`
	LastPracticed  time.Time    `json:"last_practiced"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Apply folds one graded attempt into the record: increment the counters,
// refresh the streak, recompute mastery as lifetime accuracy, and adjust
// the recommended difficulty level once enough signal has accumulated.
func (m *MasteryRecord) Apply(correct bool, practicedAt time.Time) {
	m.TotalAttempted++
	if correct {
		m.TotalCorrect++
		m.Streak++
	} else {
		m.Streak = 0
	}
	m.LastPracticed = practicedAt
	m.MasteryScore = float64(m.TotalCorrect) / float64(m.TotalAttempted)

	if m.CurrentLevel == 0 {
		m.CurrentLevel = 1
	}
	if m.TotalAttempted >= 5 {
		switch {
		case m.MasteryScore >= 0.9 && m.CurrentLevel < 5:
			m.CurrentLevel++
		case m.MasteryScore < 0.5 && m.CurrentLevel > 1:
			m.CurrentLevel--
		}
	}
}
