package service

import (
	"fmt"
	"time"

	"github.com/plusprep/backend/config"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/model"
	"github.com/plusprep/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// PracticeService drives the practice-session lifecycle: Active until
// complete, at most one attempt per question, mastery emission exactly once
// on completion.
type PracticeService interface {
	StartSession(req dto.PracticeSessionCreateDTO) (*dto.PracticeSessionDTO, error)
	GetSession(sessionID string) (*dto.PracticeSessionDTO, error)
	NextQuestion(sessionID string) (string, bool, error)
	SubmitAnswer(sessionID string, req dto.PracticeAnswerDTO) (*dto.PracticeAnswerResultDTO, error)
	CompleteSession(sessionID string) (*dto.SessionResultDTO, error)
}

type practiceService struct {
	sessionRepo  repository.PracticeSessionRepository
	attemptRepo  repository.AttemptRepository
	questionRepo repository.QuestionRepository
	mastery      MasteryService
	hintPenalty  float64
}

func NewPracticeService(
	sessionRepo repository.PracticeSessionRepository,
	attemptRepo repository.AttemptRepository,
	questionRepo repository.QuestionRepository,
	mastery MasteryService,
	cfg *config.Config,
) PracticeService {
	return &practiceService{
		sessionRepo:  sessionRepo,
		attemptRepo:  attemptRepo,
		questionRepo: questionRepo,
		mastery:      mastery,
		hintPenalty:  cfg.Scoring.HintPenalty,
	}
}

func (s *practiceService) StartSession(req dto.PracticeSessionCreateDTO) (*dto.PracticeSessionDTO, error) {
	filter := repository.QuestionFilter{
		Subject:      model.Subject(req.Subject),
		QuestionType: model.QuestionType(req.QuestionType),
		Difficulty:   req.Difficulty,
	}
	limit := req.NumQuestions
	if limit <= 0 {
		limit = 10
	}

	questions, err := s.questionRepo.FindFiltered(filter, limit, true)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions available matching criteria")
	}

	session := &model.PracticeSession{
		UserID:      req.UserID,
		QuestionIDs: make([]string, 0, len(questions)),
		Status:      model.SessionActive,
		StartedAt:   time.Now(),
	}
	if req.Subject != "" {
		subject := model.Subject(req.Subject)
		session.Subject = &subject
	}
	if req.QuestionType != "" {
		qtype := model.QuestionType(req.QuestionType)
		session.QuestionType = &qtype
	}
	for _, q := range questions {
		session.QuestionIDs = append(session.QuestionIDs, q.ID)
	}

	if err := s.sessionRepo.Create(session); err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("StartSession: failed to persist session")
		return nil, err
	}
	log.Info().Str("sessionID", session.ID).Str("userID", req.UserID).Int("questions", len(session.QuestionIDs)).Msg("Practice session started")
	return sessionToDTO(session), nil
}

func (s *practiceService) GetSession(sessionID string) (*dto.PracticeSessionDTO, error) {
	session, err := s.sessionRepo.FindByIDWithAttempts(sessionID)
	if err != nil {
		return nil, fmt.Errorf("practice session not found: %s", sessionID)
	}
	return sessionToDTO(session), nil
}

func (s *practiceService) NextQuestion(sessionID string) (string, bool, error) {
	session, err := s.sessionRepo.FindByIDWithAttempts(sessionID)
	if err != nil {
		return "", false, fmt.Errorf("practice session not found: %s", sessionID)
	}
	id, ok := session.NextQuestionID()
	return id, ok, nil
}

func (s *practiceService) SubmitAnswer(sessionID string, req dto.PracticeAnswerDTO) (*dto.PracticeAnswerResultDTO, error) {
	session, err := s.sessionRepo.FindByIDWithAttempts(sessionID)
	if err != nil {
		return nil, fmt.Errorf("practice session not found: %s", sessionID)
	}

	// Reject the transition before evaluating anything, so every failure
	// leaves the session untouched.
	if err := session.CanSubmit(req.QuestionID); err != nil {
		return nil, err
	}

	question, err := s.questionRepo.FindByID(req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownQuestion, req.QuestionID)
	}
	spec, err := question.DecodeAnswerSpec()
	if err != nil {
		return nil, fmt.Errorf("corrupt answer specification on question %s: %w", question.ID, err)
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
	attempt := model.Attempt{
		SessionID:       session.ID,
		QuestionID:      question.ID,
		Subject:         question.Subject,
		QuestionType:    question.QuestionType,
		SubmittedAnswer: []byte(req.Answer),
		HintsUsed:       req.HintsUsed,
		TimeTakenSecs:   req.TimeTakenSecs,
		Correct:         result.Correct,
		Score:           score,
	}
	if err := session.AddAttempt(attempt); err != nil {
		return nil, err
	}
	if err := s.attemptRepo.Create(&attempt); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Str("questionID", question.ID).Msg("SubmitAnswer: failed to persist attempt")
		return nil, err
	}

	return &dto.PracticeAnswerResultDTO{
		Correct:       result.Correct,
		Score:         score,
		CorrectAnswer: result.Canonical,
		Explanation:   question.Explanation,
	}, nil
}

func (s *practiceService) CompleteSession(sessionID string) (*dto.SessionResultDTO, error) {
	session, err := s.sessionRepo.FindByIDWithAttempts(sessionID)
	if err != nil {
		return nil, fmt.Errorf("practice session not found: %s", sessionID)
	}

	if err := session.Complete(time.Now()); err != nil {
		return nil, err
	}
	// Persist the completed status before emitting to the aggregator, so
	// a retried complete can never emit the batch twice.
	if err := s.sessionRepo.Save(session); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("CompleteSession: failed to persist completion")
		return nil, err
	}

	if _, err := s.mastery.RecordAttempts(session.UserID, session.GradedAttempts()); err != nil {
		log.Error().Err(err).Str("sessionID", sessionID).Msg("CompleteSession: mastery update failed")
		return nil, err
	}

	result := session.Result()
	log.Info().
		Str("sessionID", sessionID).
		Int("correct", result.CorrectAnswers).
		Int("answered", result.Answered).
		Msg("Practice session completed")
	return sessionResultToDTO(result), nil
}

func sessionToDTO(session *model.PracticeSession) *dto.PracticeSessionDTO {
	out := &dto.PracticeSessionDTO{
		ID:          session.ID,
		UserID:      session.UserID,
		QuestionIDs: session.QuestionIDs,
		Status:      string(session.Status),
		StartedAt:   session.StartedAt,
		CompletedAt: session.CompletedAt,
	}
	if session.Subject != nil {
		out.Subject = string(*session.Subject)
	}
	if session.QuestionType != nil {
		out.QuestionType = string(*session.QuestionType)
	}
	for _, a := range session.Attempts {
		out.Attempts = append(out.Attempts, dto.AttemptDTO{
			QuestionID:    a.QuestionID,
			HintsUsed:     a.HintsUsed,
			TimeTakenSecs: a.TimeTakenSecs,
			Correct:       a.Correct,
			Score:         a.Score,
			CreatedAt:     a.CreatedAt,
		})
	}
	return out
}

func sessionResultToDTO(result model.SessionResult) *dto.SessionResultDTO {
	out := &dto.SessionResultDTO{
		SessionID:        result.SessionID,
		TotalQuestions:   result.TotalQuestions,
		Answered:         result.Answered,
		CorrectAnswers:   result.CorrectAnswers,
		Accuracy:         result.Accuracy,
		TotalScore:       result.TotalScore,
		TimeTakenMinutes: result.TimeTakenMinutes,
		QuestionsByType:  make(map[string]dto.TypeBreakdown, len(result.ByType)),
	}
	if result.Subject != nil {
		out.Subject = string(*result.Subject)
	}
	for qtype, b := range result.ByType {
		out.QuestionsByType[string(qtype)] = dto.TypeBreakdown{Attempted: b.Attempted, Correct: b.Correct}
	}
	for _, qtype := range result.Strengths {
		out.Strengths = append(out.Strengths, string(qtype))
	}
	for _, qtype := range result.AreasToImprove {
		out.AreasToImprove = append(out.AreasToImprove, string(qtype))
	}
	return out
}
