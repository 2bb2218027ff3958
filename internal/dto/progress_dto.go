package dto

import "time"

// MasteryRecordDTO is one (subject, question-type) rolling statistic.
type MasteryRecordDTO struct {
	Subject        string    `json:"subject"`
	QuestionType   string    `json:"question_type"`
	TotalAttempted int       `json:"total_attempted"`
	TotalCorrect   int       `json:"total_correct"`
	MasteryScore   float64   `json:"mastery_score"`
	Streak         int       `json:"streak"`
	CurrentLevel   int       `json:"current_level"`
	LastPracticed  time.Time `json:"last_practiced"`
}

// SubjectProgressDTO rolls a subject up from its question types;
// mastery is the attempt-weighted average.
type SubjectProgressDTO struct {
	Mastery        float64                     `json:"mastery"`
	TotalAttempted int                         `json:"total_attempted"`
	TotalCorrect   int                         `json:"total_correct"`
	Types          map[string]MasteryRecordDTO `json:"types"`
}

// AreaDTO is one ranked weak or strong area.
type AreaDTO struct {
	Subject      string  `json:"subject"`
	QuestionType string  `json:"question_type"`
	Mastery      float64 `json:"mastery"`
	Attempted    int     `json:"attempted"`
}

// RecommendationDTO pairs a weak area with a templated reason.
type RecommendationDTO struct {
	Subject      string  `json:"subject"`
	QuestionType string  `json:"question_type"`
	Mastery      float64 `json:"mastery"`
	Reason       string  `json:"reason"`
}

// RecentSessionDTO is one line of recent activity.
type RecentSessionDTO struct {
	Date      time.Time `json:"date"`
	Subject   string    `json:"subject,omitempty"`
	Questions int       `json:"questions"`
	Correct   int       `json:"correct"`
}

// ProgressSummaryDTO is the complete per-user progress view.
type ProgressSummaryDTO struct {
	UserID          string                        `json:"user_id"`
	OverallMastery  float64                       `json:"overall_mastery"`
	Subjects        map[string]SubjectProgressDTO `json:"subjects"`
	WeakAreas       []AreaDTO                     `json:"weak_areas"`
	StrongAreas     []AreaDTO                     `json:"strong_areas"`
	RecentActivity  []RecentSessionDTO            `json:"recent_activity"`
	RecommendedNext []RecommendationDTO           `json:"recommended_next"`
}
