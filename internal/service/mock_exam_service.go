package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/plusprep/backend/config"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/model"
	"github.com/plusprep/backend/internal/repository"
	"github.com/rs/zerolog/log"
)

// MockExamService drives the two-paper timed mock exam. It builds papers
// from the configured section plan, enforces the strict section sequence,
// and emits the full attempt set to the aggregator exactly once on
// completion.
type MockExamService interface {
	StartExam(req dto.MockExamCreateDTO) (*dto.MockExamDTO, error)
	Begin(examID string) (*dto.ExamStateDTO, error)
	GetCurrentSection(examID string) (*dto.SectionViewDTO, error)
	SubmitAnswer(examID string, req dto.ExamAnswerDTO) (*dto.ExamAnswerResultDTO, error)
	FinishSection(examID string) (*dto.ExamStateDTO, error)
	ReportElapsed(examID string, elapsedSecs int) (*dto.ExamStateDTO, error)
	AdvanceSection(examID string) (*dto.ExamStateDTO, error)
	CompleteExam(examID string) (*dto.MockExamResultDTO, error)
}

type mockExamService struct {
	examRepo     repository.MockExamRepository
	questionRepo repository.QuestionRepository
	mastery      MasteryService
	plan         config.Exam
}

func NewMockExamService(
	examRepo repository.MockExamRepository,
	questionRepo repository.QuestionRepository,
	mastery MasteryService,
	cfg *config.Config,
) MockExamService {
	return &mockExamService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		mastery:      mastery,
		plan:         cfg.Exam,
	}
}

func (s *mockExamService) StartExam(req dto.MockExamCreateDTO) (*dto.MockExamDTO, error) {
	usedIDs := make([]string, 0, 256)
	papers := make([]model.ExamPaper, 0, s.plan.PapersPerExam)

	for paperNum := 1; paperNum <= s.plan.PapersPerExam; paperNum++ {
		paper := model.ExamPaper{Number: paperNum}
		for _, sectionPlan := range s.plan.Sections {
			questions, err := s.questionRepo.FindFiltered(repository.QuestionFilter{
				Subject:    model.Subject(sectionPlan.Subject),
				ExcludeIDs: usedIDs,
			}, sectionPlan.QuestionCount, true)
			if err != nil {
				return nil, err
			}
			if len(questions) == 0 {
				return nil, fmt.Errorf("no questions available for %s section", sectionPlan.Subject)
			}

			section := model.ExamSection{
				Subject:       model.Subject(sectionPlan.Subject),
				TimeLimitSecs: sectionPlan.TimeLimitSecs,
				QuestionIDs:   make([]string, 0, len(questions)),
				QuestionTypes: make(map[string]model.QuestionType, len(questions)),
				Attempts:      make(map[string]model.ExamAttempt),
			}
			for _, q := range questions {
				section.QuestionIDs = append(section.QuestionIDs, q.ID)
				section.QuestionTypes[q.ID] = q.QuestionType
				usedIDs = append(usedIDs, q.ID)
			}
			paper.Sections = append(paper.Sections, section)
		}
		papers = append(papers, paper)
	}

	exam := &model.MockExamSession{
		UserID: req.UserID,
		Status: model.ExamNotStarted,
		Papers: papers,
	}
	if err := s.examRepo.Create(exam); err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("StartExam: failed to persist exam")
		return nil, err
	}
	log.Info().Str("examID", exam.ID).Str("userID", req.UserID).Msg("Mock exam created")
	return examToDTO(exam), nil
}

func (s *mockExamService) load(examID string) (*model.MockExamSession, error) {
	exam, err := s.examRepo.FindByID(examID)
	if err != nil {
		return nil, fmt.Errorf("mock exam not found: %s", examID)
	}
	return exam, nil
}

func (s *mockExamService) Begin(examID string) (*dto.ExamStateDTO, error) {
	exam, err := s.load(examID)
	if err != nil {
		return nil, err
	}
	if err := exam.Begin(time.Now()); err != nil {
		return nil, err
	}
	if err := s.examRepo.Save(exam); err != nil {
		return nil, err
	}
	return examStateToDTO(exam), nil
}

func (s *mockExamService) GetCurrentSection(examID string) (*dto.SectionViewDTO, error) {
	exam, err := s.load(examID)
	if err != nil {
		return nil, err
	}
	section, err := exam.CurrentSection()
	if err != nil {
		return nil, err
	}

	view := &dto.SectionViewDTO{
		ExamID:        exam.ID,
		Status:        string(exam.Status),
		PaperNumber:   exam.PaperIndex + 1,
		SectionIndex:  exam.SectionIndex,
		Subject:       string(section.Subject),
		TimeLimitSecs: section.TimeLimitSecs,
		ElapsedSecs:   section.ElapsedSecs,
		QuestionIDs:   section.QuestionIDs,
	}
	for qid := range section.Attempts {
		view.AnsweredIDs = append(view.AnsweredIDs, qid)
	}
	sort.Strings(view.AnsweredIDs)

	questions, err := s.questionRepo.FindByIDs(section.QuestionIDs)
	if err != nil {
		log.Warn().Err(err).Str("examID", examID).Msg("GetCurrentSection: failed to load section questions")
		return view, nil
	}
	for i := range questions {
		d, err := questionToDTO(&questions[i])
		if err != nil {
			log.Warn().Err(err).Str("questionID", questions[i].ID).Msg("GetCurrentSection: skipping corrupt question")
			continue
		}
		view.Questions = append(view.Questions, *d)
	}
	return view, nil
}

func (s *mockExamService) SubmitAnswer(examID string, req dto.ExamAnswerDTO) (*dto.ExamAnswerResultDTO, error) {
	exam, err := s.load(examID)
	if err != nil {
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
	result, evalErr := model.EvaluateAnswer(submitted, spec)
	if evalErr != nil {
		return nil, evalErr
	}

	attempt := model.ExamAttempt{
		QuestionID:      question.ID,
		Subject:         question.Subject,
		QuestionType:    question.QuestionType,
		SubmittedAnswer: string(req.Answer),
		Correct:         result.Correct,
	}
	submitErr := exam.Submit(attempt, req.ElapsedSecs)

	// A submission that arrives after the timer ran out closes the
	// section; that state change must be persisted even though the
	// answer itself was rejected.
	if err := s.examRepo.Save(exam); err != nil {
		log.Error().Err(err).Str("examID", examID).Msg("SubmitAnswer: failed to persist exam")
		return nil, err
	}
	if submitErr != nil {
		if submitErr == model.ErrWrongSection || submitErr == model.ErrDuplicateSubmission {
			return &dto.ExamAnswerResultDTO{Accepted: false, Status: string(exam.Status)}, submitErr
		}
		return nil, submitErr
	}

	return &dto.ExamAnswerResultDTO{Accepted: true, Status: string(exam.Status)}, nil
}

func (s *mockExamService) FinishSection(examID string) (*dto.ExamStateDTO, error) {
	exam, err := s.load(examID)
	if err != nil {
		return nil, err
	}
	if _, err := exam.FinishSection(); err != nil {
		return nil, err
	}
	if err := s.examRepo.Save(exam); err != nil {
		return nil, err
	}
	log.Info().Str("examID", examID).Str("status", string(exam.Status)).Msg("Exam section finished")
	return examStateToDTO(exam), nil
}

func (s *mockExamService) ReportElapsed(examID string, elapsedSecs int) (*dto.ExamStateDTO, error) {
	exam, err := s.load(examID)
	if err != nil {
		return nil, err
	}
	before := exam.Status
	if _, err := exam.ReportElapsed(elapsedSecs); err != nil {
		return nil, err
	}
	if exam.Status != before || exam.Status == model.ExamSectionActive {
		if err := s.examRepo.Save(exam); err != nil {
			return nil, err
		}
	}
	return examStateToDTO(exam), nil
}

func (s *mockExamService) AdvanceSection(examID string) (*dto.ExamStateDTO, error) {
	exam, err := s.load(examID)
	if err != nil {
		return nil, err
	}
	if _, err := exam.AdvanceSection(); err != nil {
		return nil, err
	}
	if err := s.examRepo.Save(exam); err != nil {
		return nil, err
	}
	return examStateToDTO(exam), nil
}

func (s *mockExamService) CompleteExam(examID string) (*dto.MockExamResultDTO, error) {
	exam, err := s.load(examID)
	if err != nil {
		return nil, err
	}

	if err := exam.Complete(time.Now()); err != nil {
		return nil, err
	}
	// Same ordering as practice completion: status first, emission after,
	// so the aggregator sees each exam at most once.
	if err := s.examRepo.Save(exam); err != nil {
		log.Error().Err(err).Str("examID", examID).Msg("CompleteExam: failed to persist completion")
		return nil, err
	}
	if _, err := s.mastery.RecordAttempts(exam.UserID, exam.GradedAttempts()); err != nil {
		log.Error().Err(err).Str("examID", examID).Msg("CompleteExam: mastery update failed")
		return nil, err
	}

	result := exam.Result()
	log.Info().
		Str("examID", examID).
		Int("correct", result.TotalCorrect).
		Int("total", result.TotalQuestions).
		Msg("Mock exam completed")
	return examResultToDTO(result), nil
}

func examToDTO(exam *model.MockExamSession) *dto.MockExamDTO {
	return &dto.MockExamDTO{
		ID:           exam.ID,
		UserID:       exam.UserID,
		Status:       string(exam.Status),
		PaperNumber:  exam.PaperIndex + 1,
		SectionIndex: exam.SectionIndex,
		StartedAt:    exam.StartedAt,
		CompletedAt:  exam.CompletedAt,
	}
}

func examStateToDTO(exam *model.MockExamSession) *dto.ExamStateDTO {
	return &dto.ExamStateDTO{
		ExamID:       exam.ID,
		Status:       string(exam.Status),
		PaperNumber:  exam.PaperIndex + 1,
		SectionIndex: exam.SectionIndex,
	}
}

func examResultToDTO(result model.MockExamResult) *dto.MockExamResultDTO {
	out := &dto.MockExamResultDTO{
		ExamID:           result.ExamID,
		UserID:           result.UserID,
		TotalQuestions:   result.TotalQuestions,
		TotalCorrect:     result.TotalCorrect,
		OverallAccuracy:  result.OverallAccuracy,
		SubjectBreakdown: make(map[string]dto.SubjectResultDTO, len(result.SubjectBreakdown)),
		CompletedAt:      result.CompletedAt,
	}
	for _, paper := range result.Papers {
		pr := dto.PaperResultDTO{
			Number:            paper.Number,
			Total:             paper.Total,
			Correct:           paper.Correct,
			Accuracy:          paper.Accuracy,
			StandardizedScore: paper.StandardizedScore,
		}
		for _, section := range paper.Sections {
			pr.Sections = append(pr.Sections, dto.SectionResultDTO{
				Subject:      string(section.Subject),
				Total:        section.Total,
				Correct:      section.Correct,
				Accuracy:     section.Accuracy,
				TimeUsedSecs: section.TimeUsedSecs,
			})
		}
		out.Papers = append(out.Papers, pr)
	}
	for subject, sb := range result.SubjectBreakdown {
		out.SubjectBreakdown[string(subject)] = dto.SubjectResultDTO{
			Total:    sb.Total,
			Correct:  sb.Correct,
			Accuracy: sb.Accuracy,
		}
	}
	return out
}
