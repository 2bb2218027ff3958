package service

import (
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/plusprep/backend/config"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/model"
	"github.com/plusprep/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// QuestionService manages the question bank and offers the one-off answer
// check used outside any session.
type QuestionService interface {
	CreateQuestion(req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	ImportQuestions(req dto.QuestionImportDTO) (int, error)
	GetQuestion(id string) (*dto.QuestionResponseDTO, error)
	ListQuestions(subject, questionType string, difficulty, limit int) ([]dto.QuestionResponseDTO, error)
	GetHints(id string, maxLevel int) ([]dto.HintDTO, error)
	CheckAnswer(id string, req dto.AnswerCheckDTO) (*dto.AnswerCheckResultDTO, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	hintPenalty  float64
}

func NewQuestionService(questionRepo repository.QuestionRepository, cfg *config.Config) QuestionService {
	return &questionService{
		questionRepo: questionRepo,
		hintPenalty:  cfg.Scoring.HintPenalty,
	}
}

// buildQuestion validates the payload and resolves the answer shape once,
// so a bad specification is rejected at load time rather than discovered
// per submission.
func buildQuestion(req dto.QuestionCreateDTO) (*model.Question, error) {
	subject := model.Subject(req.Subject)
	if !subject.Valid() {
		return nil, fmt.Errorf("unknown subject %q", req.Subject)
	}
	questionType := model.QuestionType(req.QuestionType)
	if !questionType.Valid() {
		return nil, fmt.Errorf("unknown question type %q", req.QuestionType)
	}

	contentJSON, err := json.Marshal(req.Content)
	if err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	answerJSON, err := json.Marshal(req.Answer)
	if err != nil {
		return nil, fmt.Errorf("invalid answer: %w", err)
	}
	if _, err := model.ParseAnswerSpec(answerJSON, req.Content.MultiSelect); err != nil {
		return nil, fmt.Errorf("invalid answer specification: %w", err)
	}

	difficulty := req.Difficulty
	if difficulty == 0 {
		difficulty = 3
	}

	question := &model.Question{
		Subject:      subject,
		QuestionType: questionType,
		Difficulty:   difficulty,
		Content:      contentJSON,
		AnswerSpec:   answerJSON,
		Explanation:  req.Explanation,
		Source:       req.Source,
	}
	if len(req.Hints) > 0 {
		hintsJSON, err := json.Marshal(req.Hints)
		if err != nil {
			return nil, fmt.Errorf("invalid hints: %w", err)
		}
		question.Hints = hintsJSON
	}
	return question, nil
}

func questionToDTO(q *model.Question) (*dto.QuestionResponseDTO, error) {
	content, err := q.DecodeContent()
	if err != nil {
		return nil, fmt.Errorf("corrupt content on question %s: %w", q.ID, err)
	}
	var resp dto.QuestionResponseDTO
	if err := copier.Copy(&resp, q); err != nil {
		return nil, err
	}
	resp.Subject = string(q.Subject)
	resp.QuestionType = string(q.QuestionType)
	copier.Copy(&resp.Content, &content)
	return &resp, nil
}

func (s *questionService) CreateQuestion(req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	question, err := buildQuestion(req)
	if err != nil {
		return nil, err
	}
	if err := s.questionRepo.Create(question); err != nil {
		log.Error().Err(err).Msg("CreateQuestion: failed to persist question")
		return nil, err
	}
	return questionToDTO(question)
}

func (s *questionService) ImportQuestions(req dto.QuestionImportDTO) (int, error) {
	questions := make([]model.Question, 0, len(req.Questions))
	for i, q := range req.Questions {
		question, err := buildQuestion(q)
		if err != nil {
			log.Warn().Err(err).Int("index", i).Msg("ImportQuestions: skipping invalid question")
			continue
		}
		questions = append(questions, *question)
	}
	if len(questions) == 0 {
		return 0, fmt.Errorf("no valid questions in import payload")
	}
	if err := s.questionRepo.CreateBatch(questions); err != nil {
		return 0, err
	}
	log.Info().Int("imported", len(questions)).Int("submitted", len(req.Questions)).Msg("Question import finished")
	return len(questions), nil
}

func (s *questionService) GetQuestion(id string) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownQuestion, id)
	}
	return questionToDTO(question)
}

func (s *questionService) ListQuestions(subject, questionType string, difficulty, limit int) ([]dto.QuestionResponseDTO, error) {
	filter := repository.QuestionFilter{
		Subject:      model.Subject(subject),
		QuestionType: model.QuestionType(questionType),
		Difficulty:   difficulty,
	}
	if limit <= 0 {
		limit = 20
	}
	questions, err := s.questionRepo.FindFiltered(filter, limit, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.QuestionResponseDTO, 0, len(questions))
	for i := range questions {
		d, err := questionToDTO(&questions[i])
		if err != nil {
			log.Warn().Err(err).Str("questionID", questions[i].ID).Msg("ListQuestions: skipping corrupt question")
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *questionService) GetHints(id string, maxLevel int) ([]dto.HintDTO, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownQuestion, id)
	}
	hints, err := question.DecodeHints()
	if err != nil {
		return nil, fmt.Errorf("corrupt hints on question %s: %w", id, err)
	}
	out := make([]dto.HintDTO, 0, len(hints))
	for _, h := range hints {
		if maxLevel > 0 && h.Level > maxLevel {
			continue
		}
		out = append(out, dto.HintDTO{Level: h.Level, Text: h.Text, Penalty: h.Penalty})
	}
	return out, nil
}

func (s *questionService) CheckAnswer(id string, req dto.AnswerCheckDTO) (*dto.AnswerCheckResultDTO, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownQuestion, id)
	}
	spec, err := question.DecodeAnswerSpec()
	if err != nil {
		return nil, fmt.Errorf("corrupt answer specification on question %s: %w", id, err)
	}

	submitted, err := model.ParseSubmittedAnswer(req.Answer)
	if err != nil {
		return nil, err
	}
	result, err := model.EvaluateAnswer(submitted, spec)
	if err != nil {
		return nil, err
	}

	score := model.HintAdjustedScore(result.Correct, req.HintsUsed, s.hintPenalty)
	feedback := "Not quite right. Let's look at the explanation."
	if result.Correct {
		feedback = "Excellent! That's correct."
		if req.HintsUsed > 0 {
			feedback = fmt.Sprintf("Correct, with %d hint(s) used.", req.HintsUsed)
		}
	}

	return &dto.AnswerCheckResultDTO{
		Correct:       result.Correct,
		Score:         score,
		CorrectAnswer: result.Canonical,
		Explanation:   question.Explanation,
		Feedback:      feedback,
	}, nil
}
