package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/model"
	"github.com/plusprep/backend/internal/repository"
)

// In-memory repository fakes for service tests.

type fakeQuestionRepo struct {
	order     []string
	questions map[string]*model.Question
}

func newFakeQuestionRepo(questions ...*model.Question) *fakeQuestionRepo {
	repo := &fakeQuestionRepo{questions: make(map[string]*model.Question)}
	for _, q := range questions {
		repo.addQuestion(q)
	}
	return repo
}

func (r *fakeQuestionRepo) addQuestion(q *model.Question) {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	r.order = append(r.order, q.ID)
	r.questions[q.ID] = q
}

func (r *fakeQuestionRepo) Create(question *model.Question) error {
	r.addQuestion(question)
	return nil
}

func (r *fakeQuestionRepo) CreateBatch(questions []model.Question) error {
	for i := range questions {
		r.addQuestion(&questions[i])
	}
	return nil
}

func (r *fakeQuestionRepo) FindByID(id string) (*model.Question, error) {
	q, ok := r.questions[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return q, nil
}

func (r *fakeQuestionRepo) FindByIDs(ids []string) ([]model.Question, error) {
	var out []model.Question
	for _, id := range ids {
		if q, ok := r.questions[id]; ok {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) FindFiltered(filter repository.QuestionFilter, limit int, randomOrder bool) ([]model.Question, error) {
	excluded := make(map[string]struct{}, len(filter.ExcludeIDs))
	for _, id := range filter.ExcludeIDs {
		excluded[id] = struct{}{}
	}

	var out []model.Question
	for _, id := range r.order {
		q := r.questions[id]
		if _, skip := excluded[id]; skip {
			continue
		}
		if filter.Subject != "" && q.Subject != filter.Subject {
			continue
		}
		if filter.QuestionType != "" && q.QuestionType != filter.QuestionType {
			continue
		}
		if filter.Difficulty != 0 && q.Difficulty != filter.Difficulty {
			continue
		}
		out = append(out, *q)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeQuestionRepo) Count(filter repository.QuestionFilter) (int64, error) {
	found, err := r.FindFiltered(filter, 0, false)
	return int64(len(found)), err
}

type fakeSessionRepo struct {
	sessions  map[string]*model.PracticeSession
	saveCalls int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*model.PracticeSession)}
}

func (r *fakeSessionRepo) Create(session *model.PracticeSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) Save(session *model.PracticeSession) error {
	r.saveCalls++
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) FindByID(id string) (*model.PracticeSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return s, nil
}

func (r *fakeSessionRepo) FindByIDWithAttempts(id string) (*model.PracticeSession, error) {
	return r.FindByID(id)
}

func (r *fakeSessionRepo) FindRecentByUser(userID string, limit int) ([]model.PracticeSession, error) {
	var out []model.PracticeSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeAttemptRepo struct {
	attempts []model.Attempt
}

func (r *fakeAttemptRepo) Create(attempt *model.Attempt) error {
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *fakeAttemptRepo) FindBySessionID(sessionID string) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range r.attempts {
		if a.SessionID == sessionID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeExamRepo struct {
	exams map[string]*model.MockExamSession
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{exams: make(map[string]*model.MockExamSession)}
}

func (r *fakeExamRepo) Create(exam *model.MockExamSession) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) Save(exam *model.MockExamSession) error {
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) FindByID(id string) (*model.MockExamSession, error) {
	e, ok := r.exams[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return e, nil
}

// fakeMastery records every emission so tests can assert the at-most-once
// contract of session and exam completion.
type fakeMastery struct {
	emissions [][]model.GradedAttempt
	userIDs   []string
}

func (m *fakeMastery) RecordAttempts(userID string, attempts []model.GradedAttempt) ([]model.MasteryRecord, error) {
	m.emissions = append(m.emissions, attempts)
	m.userIDs = append(m.userIDs, userID)
	return nil, nil
}

func (m *fakeMastery) GetRecords(userID string) ([]model.MasteryRecord, error) {
	return nil, nil
}

func (m *fakeMastery) GetSummary(userID string) (*dto.ProgressSummaryDTO, error) {
	return &dto.ProgressSummaryDTO{UserID: userID}, nil
}
