package dto

import (
	"encoding/json"
	"time"
)

// ErrorResponse is the uniform error body returned by every handler.
type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// HintDTO mirrors one level of a question's hint ladder.
type HintDTO struct {
	Level   int     `json:"level" binding:"required,min=1"`
	Text    string  `json:"text" binding:"required"`
	Penalty float64 `json:"penalty"`
}

// AnswerSpecDTO is the wire form of an answer specification. Value is a
// string, a string array or a string mapping.
type AnswerSpecDTO struct {
	Value            json.RawMessage `json:"value" binding:"required"`
	AcceptVariations []string        `json:"accept_variations,omitempty"`
	CaseSensitive    bool            `json:"case_sensitive,omitempty"`
	OrderMatters     bool            `json:"order_matters,omitempty"`
}

// QuestionContentDTO is the free-form presentation payload.
type QuestionContentDTO struct {
	Text         string            `json:"text" binding:"required"`
	Passage      string            `json:"passage,omitempty"`
	Options      []string          `json:"options,omitempty"`
	OptionImages []string          `json:"option_images,omitempty"`
	ImageURL     string            `json:"image_url,omitempty"`
	Images       []string          `json:"images,omitempty"`
	Items        []string          `json:"items,omitempty"`
	Pairs        map[string]string `json:"pairs,omitempty"`
	MultiSelect  bool              `json:"multi_select,omitempty"`
}

// QuestionCreateDTO is the admin payload for adding one question.
type QuestionCreateDTO struct {
	Subject      string             `json:"subject" binding:"required"`
	QuestionType string             `json:"question_type" binding:"required"`
	Difficulty   int                `json:"difficulty" binding:"omitempty,min=1,max=5"`
	Content      QuestionContentDTO `json:"content" binding:"required"`
	Answer       AnswerSpecDTO      `json:"answer" binding:"required"`
	Explanation  string             `json:"explanation"`
	Hints        []HintDTO          `json:"hints,omitempty" binding:"omitempty,dive"`
	Source       string             `json:"source,omitempty"`
}

// QuestionImportDTO is the bulk-import payload.
type QuestionImportDTO struct {
	Questions []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// QuestionResponseDTO is a question as shown to users; the answer
// specification is never included.
type QuestionResponseDTO struct {
	ID           string             `json:"id"`
	Subject      string             `json:"subject"`
	QuestionType string             `json:"question_type"`
	Difficulty   int                `json:"difficulty"`
	Content      QuestionContentDTO `json:"content"`
	Explanation  string             `json:"explanation,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// AnswerCheckDTO is a one-off evaluation request against a question.
type AnswerCheckDTO struct {
	Answer    json.RawMessage `json:"answer" binding:"required"`
	HintsUsed int             `json:"hints_used" binding:"omitempty,min=0"`
}

// AnswerCheckResultDTO reports the evaluation outcome.
type AnswerCheckResultDTO struct {
	Correct       bool    `json:"correct"`
	Score         float64 `json:"score"`
	CorrectAnswer any     `json:"correct_answer"`
	Explanation   string  `json:"explanation,omitempty"`
	Feedback      string  `json:"feedback,omitempty"`
}
