package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subject is one of the four 11+ exam subjects.
type Subject string

const (
	SubjectEnglish            Subject = "english"
	SubjectMaths              Subject = "maths"
	SubjectVerbalReasoning    Subject = "verbal_reasoning"
	SubjectNonVerbalReasoning Subject = "non_verbal_reasoning"
)

func (s Subject) Valid() bool {
	switch s {
	case SubjectEnglish, SubjectMaths, SubjectVerbalReasoning, SubjectNonVerbalReasoning:
		return true
	}
	return false
}

// QuestionType tags a question with its subtype within a subject.
type QuestionType string

const (
	// English
	TypeComprehension      QuestionType = "comprehension"
	TypeGrammar            QuestionType = "grammar"
	TypeSpelling           QuestionType = "spelling"
	TypeVocabulary         QuestionType = "vocabulary"
	TypeSentenceCompletion QuestionType = "sentence_completion"
	TypePunctuation        QuestionType = "punctuation"

	// Maths
	TypeNumberOperations QuestionType = "number_operations"
	TypeFractions        QuestionType = "fractions"
	TypeDecimals         QuestionType = "decimals"
	TypePercentages      QuestionType = "percentages"
	TypeGeometry         QuestionType = "geometry"
	TypeMeasurement      QuestionType = "measurement"
	TypeDataHandling     QuestionType = "data_handling"
	TypeWordProblems     QuestionType = "word_problems"
	TypeAlgebra          QuestionType = "algebra"
	TypeRatio            QuestionType = "ratio"

	// Verbal reasoning
	TypeVRInsertLetter         QuestionType = "vr_insert_letter"
	TypeVROddOnesOut           QuestionType = "vr_odd_ones_out"
	TypeVRAlphabetCode         QuestionType = "vr_alphabet_code"
	TypeVRSynonyms             QuestionType = "vr_synonyms"
	TypeVRHiddenWord           QuestionType = "vr_hidden_word"
	TypeVRMissingWord          QuestionType = "vr_missing_word"
	TypeVRNumberSeries         QuestionType = "vr_number_series"
	TypeVRLetterSeries         QuestionType = "vr_letter_series"
	TypeVRNumberConnections    QuestionType = "vr_number_connections"
	TypeVRWordPairs            QuestionType = "vr_word_pairs"
	TypeVRMultipleMeaning      QuestionType = "vr_multiple_meaning"
	TypeVRLetterRelationships  QuestionType = "vr_letter_relationships"
	TypeVRNumberCodes          QuestionType = "vr_number_codes"
	TypeVRCompoundWords        QuestionType = "vr_compound_words"
	TypeVRWordShuffling        QuestionType = "vr_word_shuffling"
	TypeVRAnagrams             QuestionType = "vr_anagrams"
	TypeVRLogicProblems        QuestionType = "vr_logic_problems"
	TypeVRExploreFacts         QuestionType = "vr_explore_facts"
	TypeVRSolveRiddle          QuestionType = "vr_solve_riddle"
	TypeVRRhymingSynonyms      QuestionType = "vr_rhyming_synonyms"
	TypeVRShuffledSentences    QuestionType = "vr_shuffled_sentences"

	// Non-verbal reasoning
	TypeNVRSequences  QuestionType = "nvr_sequences"
	TypeNVROddOneOut  QuestionType = "nvr_odd_one_out"
	TypeNVRAnalogies  QuestionType = "nvr_analogies"
	TypeNVRMatrices   QuestionType = "nvr_matrices"
	TypeNVRRotation   QuestionType = "nvr_rotation"
	TypeNVRReflection QuestionType = "nvr_reflection"
	TypeNVRSpatial3D  QuestionType = "nvr_spatial_3d"
	TypeNVRCodes      QuestionType = "nvr_codes"
	TypeNVRVisual     QuestionType = "nvr_visual"
)

func (t QuestionType) Valid() bool {
	switch t {
	case TypeComprehension, TypeGrammar, TypeSpelling, TypeVocabulary,
		TypeSentenceCompletion, TypePunctuation,
		TypeNumberOperations, TypeFractions, TypeDecimals, TypePercentages,
		TypeGeometry, TypeMeasurement, TypeDataHandling, TypeWordProblems,
		TypeAlgebra, TypeRatio,
		TypeVRInsertLetter, TypeVROddOnesOut, TypeVRAlphabetCode,
		TypeVRSynonyms, TypeVRHiddenWord, TypeVRMissingWord,
		TypeVRNumberSeries, TypeVRLetterSeries, TypeVRNumberConnections,
		TypeVRWordPairs, TypeVRMultipleMeaning, TypeVRLetterRelationships,
		TypeVRNumberCodes, TypeVRCompoundWords, TypeVRWordShuffling,
		TypeVRAnagrams, TypeVRLogicProblems, TypeVRExploreFacts,
		TypeVRSolveRiddle, TypeVRRhymingSynonyms, TypeVRShuffledSentences,
		TypeNVRSequences, TypeNVROddOneOut, TypeNVRAnalogies,
		TypeNVRMatrices, TypeNVRRotation, TypeNVRReflection,
		TypeNVRSpatial3D, TypeNVRCodes, TypeNVRVisual:
		return true
	}
	return false
}

// Hint is one entry of a question's progressive hint ladder.
type Hint struct {
	Level   int     `json:"level"`
	Text    string  `json:"text"`
	Penalty float64 `json:"penalty"`
}

// QuestionContent is the free-form payload shown to the user. Fields vary
// by question format.
type QuestionContent struct {
	Text         string            `json:"text"`
	Passage      string            `json:"passage,omitempty"`
	Options      []string          `json:"options,omitempty"`
	OptionImages []string          `json:"option_images,omitempty"`
	ImageURL     string            `json:"image_url,omitempty"`
	Images       []string          `json:"images,omitempty"`
	Items        []string          `json:"items,omitempty"`
	Pairs        map[string]string `json:"pairs,omitempty"`
	MultiSelect  bool              `json:"multi_select,omitempty"`
}

// Question is a question-bank entry. The answer specification is stored as
// a JSON document and resolved into an AnswerSpec once at load time.
type Question struct {
	ID           string         `gorm:"type:uuid;primarykey" json:"id"`
	Subject      Subject        `gorm:"not null;index" json:"subject"`
	QuestionType QuestionType   `gorm:"not null;index" json:"question_type"`
	Difficulty   int            `gorm:"not null;default:3" json:"difficulty"`
	Content      datatypes.JSON `gorm:"not null" json:"content"`
	AnswerSpec   datatypes.JSON `gorm:"not null" json:"-"`
	Explanation  string         `gorm:"type:text" json:"explanation"`
	Hints        datatypes.JSON `json:"hints,omitempty"`
	Source       string         `json:"source,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// DecodeContent unmarshals the content payload.
func (q *Question) DecodeContent() (QuestionContent, error) {
	var c QuestionContent
	if len(q.Content) == 0 {
		return c, nil
	}
	err := json.Unmarshal(q.Content, &c)
	return c, err
}

// DecodeAnswerSpec resolves the stored answer document into the closed
// tagged union used by the evaluator.
func (q *Question) DecodeAnswerSpec() (AnswerSpec, error) {
	content, err := q.DecodeContent()
	if err != nil {
		return AnswerSpec{}, err
	}
	return ParseAnswerSpec(q.AnswerSpec, content.MultiSelect)
}

// DecodeHints unmarshals the hint ladder, ordered by level.
func (q *Question) DecodeHints() ([]Hint, error) {
	if len(q.Hints) == 0 {
		return nil, nil
	}
	var hints []Hint
	err := json.Unmarshal(q.Hints, &hints)
	return hints, err
}
