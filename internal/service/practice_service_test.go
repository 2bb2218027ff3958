package service

import (
	"encoding/json"
	"testing"

	"github.com/plusprep/backend/config"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func stringQuestion(id, answer string) *model.Question {
	return &model.Question{
		ID:           id,
		Subject:      model.SubjectEnglish,
		QuestionType: model.TypeVocabulary,
		Difficulty:   3,
		Content:      datatypes.JSON(`{"text": "test question"}`),
		AnswerSpec:   datatypes.JSON(`{"value": "` + answer + `"}`),
		Explanation:  "because",
	}
}

type practiceFixture struct {
	svc      PracticeService
	sessions *fakeSessionRepo
	attempts *fakeAttemptRepo
	mastery  *fakeMastery
}

func newPracticeFixture(questions ...*model.Question) practiceFixture {
	sessions := newFakeSessionRepo()
	attempts := &fakeAttemptRepo{}
	mastery := &fakeMastery{}
	cfg := &config.Config{Scoring: config.Scoring{HintPenalty: 0.5}}
	svc := NewPracticeService(sessions, attempts, newFakeQuestionRepo(questions...), mastery, cfg)
	return practiceFixture{svc: svc, sessions: sessions, attempts: attempts, mastery: mastery}
}

func startSession(t *testing.T, f practiceFixture, n int) *dto.PracticeSessionDTO {
	t.Helper()
	session, err := f.svc.StartSession(dto.PracticeSessionCreateDTO{UserID: "user-1", NumQuestions: n})
	require.NoError(t, err)
	return session
}

func TestPracticeService_StartSession(t *testing.T) {
	f := newPracticeFixture(
		stringQuestion("q1", "a"),
		stringQuestion("q2", "b"),
		stringQuestion("q3", "c"),
	)

	session := startSession(t, f, 2)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, string(model.SessionActive), session.Status)
	assert.Len(t, session.QuestionIDs, 2)
}

func TestPracticeService_StartSession_NoQuestions(t *testing.T) {
	f := newPracticeFixture()
	_, err := f.svc.StartSession(dto.PracticeSessionCreateDTO{UserID: "user-1"})
	assert.Error(t, err)
}

func TestPracticeService_SubmitAnswer(t *testing.T) {
	f := newPracticeFixture(stringQuestion("q1", "Paris"), stringQuestion("q2", "London"))
	session := startSession(t, f, 2)

	result, err := f.svc.SubmitAnswer(session.ID, dto.PracticeAnswerDTO{
		QuestionID: "q1",
		Answer:     json.RawMessage(`"paris"`),
	})
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
	assert.Equal(t, "Paris", result.CorrectAnswer)
	assert.Equal(t, "because", result.Explanation)
	require.Len(t, f.attempts.attempts, 1)

	t.Run("hint penalty applied", func(t *testing.T) {
		result, err := f.svc.SubmitAnswer(session.ID, dto.PracticeAnswerDTO{
			QuestionID: "q2",
			Answer:     json.RawMessage(`"london"`),
			HintsUsed:  1,
		})
		require.NoError(t, err)
		assert.True(t, result.Correct)
		assert.InDelta(t, 0.5, result.Score, 1e-9)
	})

	t.Run("duplicate rejected and not persisted", func(t *testing.T) {
		_, err := f.svc.SubmitAnswer(session.ID, dto.PracticeAnswerDTO{
			QuestionID: "q1",
			Answer:     json.RawMessage(`"paris"`),
		})
		assert.ErrorIs(t, err, model.ErrDuplicateSubmission)
		assert.Len(t, f.attempts.attempts, 2)
	})

	t.Run("question outside session rejected", func(t *testing.T) {
		_, err := f.svc.SubmitAnswer(session.ID, dto.PracticeAnswerDTO{
			QuestionID: "q99",
			Answer:     json.RawMessage(`"x"`),
		})
		assert.ErrorIs(t, err, model.ErrQuestionNotInSession)
	})

	t.Run("malformed shape rejected", func(t *testing.T) {
		f2 := newPracticeFixture(stringQuestion("q1", "Paris"))
		s2 := startSession(t, f2, 1)
		_, err := f2.svc.SubmitAnswer(s2.ID, dto.PracticeAnswerDTO{
			QuestionID: "q1",
			Answer:     json.RawMessage(`{"a": "b"}`),
		})
		assert.ErrorIs(t, err, model.ErrMalformedAnswerShape)
		assert.Empty(t, f2.attempts.attempts)
	})
}

func TestPracticeService_CompleteSession(t *testing.T) {
	f := newPracticeFixture(stringQuestion("q1", "a"), stringQuestion("q2", "b"), stringQuestion("q3", "c"))
	session := startSession(t, f, 3)

	submit := func(qid, answer string) {
		_, err := f.svc.SubmitAnswer(session.ID, dto.PracticeAnswerDTO{QuestionID: qid, Answer: json.RawMessage(`"` + answer + `"`)})
		require.NoError(t, err)
	}
	submit("q1", "a")
	submit("q2", "b")
	submit("q3", "wrong")

	result, err := f.svc.CompleteSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Answered)
	assert.Equal(t, 2, result.CorrectAnswers)
	assert.InDelta(t, 2.0/3.0, result.Accuracy, 1e-9)

	// The graded batch reached the aggregator exactly once.
	require.Len(t, f.mastery.emissions, 1)
	assert.Equal(t, "user-1", f.mastery.userIDs[0])
	assert.Len(t, f.mastery.emissions[0], 3)

	t.Run("second complete does not re-emit", func(t *testing.T) {
		_, err := f.svc.CompleteSession(session.ID)
		assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
		assert.Len(t, f.mastery.emissions, 1)
	})

	t.Run("submissions after completion rejected", func(t *testing.T) {
		_, err := f.svc.SubmitAnswer(session.ID, dto.PracticeAnswerDTO{QuestionID: "q1", Answer: json.RawMessage(`"a"`)})
		assert.ErrorIs(t, err, model.ErrSessionNotActive)
	})
}

func TestPracticeService_NextQuestion(t *testing.T) {
	f := newPracticeFixture(stringQuestion("q1", "a"), stringQuestion("q2", "b"))
	session := startSession(t, f, 2)

	next, remaining, err := f.svc.NextQuestion(session.ID)
	require.NoError(t, err)
	assert.True(t, remaining)
	assert.Equal(t, session.QuestionIDs[0], next)

	for _, qid := range session.QuestionIDs {
		answer := "a"
		if qid == "q2" {
			answer = "b"
		}
		_, err := f.svc.SubmitAnswer(session.ID, dto.PracticeAnswerDTO{QuestionID: qid, Answer: json.RawMessage(`"` + answer + `"`)})
		require.NoError(t, err)
	}

	_, remaining, err = f.svc.NextQuestion(session.ID)
	require.NoError(t, err)
	assert.False(t, remaining)
}
