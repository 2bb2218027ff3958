package service

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/plusprep/backend/config"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func examTestConfig() *config.Config {
	return &config.Config{
		Scoring: config.Scoring{HintPenalty: 0.5},
		Exam: config.Exam{
			PapersPerExam: 2,
			Sections: []config.SectionPlan{
				{Subject: "english", QuestionCount: 2, TimeLimitSecs: 900},
				{Subject: "maths", QuestionCount: 2, TimeLimitSecs: 1140},
				{Subject: "non_verbal_reasoning", QuestionCount: 1, TimeLimitSecs: 480},
				{Subject: "verbal_reasoning", QuestionCount: 1, TimeLimitSecs: 480},
			},
		},
	}
}

// examQuestionBank creates enough questions per subject for two papers,
// each with the canonical answer "yes".
func examQuestionBank() *fakeQuestionRepo {
	repo := newFakeQuestionRepo()
	subjects := map[model.Subject]struct {
		count int
		qtype model.QuestionType
	}{
		model.SubjectEnglish:            {4, model.TypeVocabulary},
		model.SubjectMaths:              {4, model.TypeFractions},
		model.SubjectNonVerbalReasoning: {2, model.TypeNVRSequences},
		model.SubjectVerbalReasoning:    {2, model.TypeVRSynonyms},
	}
	for subject, plan := range subjects {
		for i := 0; i < plan.count; i++ {
			repo.addQuestion(&model.Question{
				ID:           fmt.Sprintf("%s-%d", subject, i),
				Subject:      subject,
				QuestionType: plan.qtype,
				Content:      datatypes.JSON(`{"text": "test"}`),
				AnswerSpec:   datatypes.JSON(`{"value": "yes"}`),
			})
		}
	}
	return repo
}

type examFixture struct {
	svc     MockExamService
	exams   *fakeExamRepo
	mastery *fakeMastery
}

func newExamFixture() examFixture {
	exams := newFakeExamRepo()
	mastery := &fakeMastery{}
	svc := NewMockExamService(exams, examQuestionBank(), mastery, examTestConfig())
	return examFixture{svc: svc, exams: exams, mastery: mastery}
}

func TestMockExamService_StartExam(t *testing.T) {
	f := newExamFixture()

	exam, err := f.svc.StartExam(dto.MockExamCreateDTO{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, string(model.ExamNotStarted), exam.Status)

	stored, err := f.exams.FindByID(exam.ID)
	require.NoError(t, err)
	require.Len(t, stored.Papers, 2)

	seen := make(map[string]bool)
	for _, paper := range stored.Papers {
		require.Len(t, paper.Sections, 4)
		assert.Equal(t, model.SubjectEnglish, paper.Sections[0].Subject)
		assert.Equal(t, 900, paper.Sections[0].TimeLimitSecs)
		assert.Equal(t, model.SubjectMaths, paper.Sections[1].Subject)
		for _, section := range paper.Sections {
			for _, qid := range section.QuestionIDs {
				assert.False(t, seen[qid], "question %s used twice", qid)
				seen[qid] = true
			}
		}
	}
	assert.Len(t, seen, 12)
}

func TestMockExamService_StartExam_BankTooSmall(t *testing.T) {
	exams := newFakeExamRepo()
	svc := NewMockExamService(exams, newFakeQuestionRepo(), &fakeMastery{}, examTestConfig())

	_, err := svc.StartExam(dto.MockExamCreateDTO{UserID: "user-1"})
	assert.Error(t, err)
}

func TestMockExamService_FullRun(t *testing.T) {
	f := newExamFixture()
	exam, err := f.svc.StartExam(dto.MockExamCreateDTO{UserID: "user-1"})
	require.NoError(t, err)

	state, err := f.svc.Begin(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.ExamSectionActive), state.Status)

	// Answer the first section correctly, then push every remaining
	// section through finish/advance.
	view, err := f.svc.GetCurrentSection(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, string(model.SubjectEnglish), view.Subject)
	require.Len(t, view.Questions, 2)

	for _, qid := range view.QuestionIDs {
		result, err := f.svc.SubmitAnswer(exam.ID, dto.ExamAnswerDTO{
			QuestionID:  qid,
			Answer:      json.RawMessage(`"yes"`),
			ElapsedSecs: 60,
		})
		require.NoError(t, err)
		assert.True(t, result.Accepted)
	}

	view, err = f.svc.GetCurrentSection(exam.ID)
	require.NoError(t, err)
	assert.IsIncreasing(t, view.AnsweredIDs)
	assert.ElementsMatch(t, view.QuestionIDs, view.AnsweredIDs)

	for {
		stored, err := f.exams.FindByID(exam.ID)
		require.NoError(t, err)
		if stored.Status == model.ExamFinished {
			break
		}
		if stored.Status == model.ExamSectionActive {
			_, err = f.svc.FinishSection(exam.ID)
		} else {
			_, err = f.svc.AdvanceSection(exam.ID)
		}
		require.NoError(t, err)
	}

	result, err := f.svc.CompleteExam(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, result.TotalQuestions)
	assert.Equal(t, 2, result.TotalCorrect)
	require.Len(t, result.Papers, 2)
	assert.Equal(t, 2, result.Papers[0].Correct)

	// Every slot, answered or not, reached the aggregator exactly once,
	// carrying its question type so no record is keyed on an empty type.
	require.Len(t, f.mastery.emissions, 1)
	assert.Equal(t, "user-1", f.mastery.userIDs[0])
	require.Len(t, f.mastery.emissions[0], 12)
	for _, attempt := range f.mastery.emissions[0] {
		assert.NotEmpty(t, attempt.QuestionType, "attempt %s emitted without a question type", attempt.QuestionID)
		assert.NotEmpty(t, attempt.Subject)
	}

	t.Run("second complete does not re-emit", func(t *testing.T) {
		_, err := f.svc.CompleteExam(exam.ID)
		assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
		assert.Len(t, f.mastery.emissions, 1)
	})
}

func TestMockExamService_TimerExpiryViaSubmit(t *testing.T) {
	f := newExamFixture()
	exam, err := f.svc.StartExam(dto.MockExamCreateDTO{UserID: "user-1"})
	require.NoError(t, err)
	_, err = f.svc.Begin(exam.ID)
	require.NoError(t, err)

	view, err := f.svc.GetCurrentSection(exam.ID)
	require.NoError(t, err)

	// Submission at the limit is rejected, and the closed state is
	// persisted.
	_, err = f.svc.SubmitAnswer(exam.ID, dto.ExamAnswerDTO{
		QuestionID:  view.QuestionIDs[0],
		Answer:      json.RawMessage(`"yes"`),
		ElapsedSecs: 900,
	})
	assert.ErrorIs(t, err, model.ErrWrongSection)

	stored, err := f.exams.FindByID(exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamSectionBreak, stored.Status)
	assert.True(t, stored.Papers[0].Sections[0].Closed)
}

func TestMockExamService_ReportElapsed(t *testing.T) {
	f := newExamFixture()
	exam, err := f.svc.StartExam(dto.MockExamCreateDTO{UserID: "user-1"})
	require.NoError(t, err)
	_, err = f.svc.Begin(exam.ID)
	require.NoError(t, err)

	state, err := f.svc.ReportElapsed(exam.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, string(model.ExamSectionActive), state.Status)

	state, err = f.svc.ReportElapsed(exam.ID, 900)
	require.NoError(t, err)
	assert.Equal(t, string(model.ExamSectionBreak), state.Status)
}

func TestMockExamService_DuplicateAnswer(t *testing.T) {
	f := newExamFixture()
	exam, err := f.svc.StartExam(dto.MockExamCreateDTO{UserID: "user-1"})
	require.NoError(t, err)
	_, err = f.svc.Begin(exam.ID)
	require.NoError(t, err)

	view, err := f.svc.GetCurrentSection(exam.ID)
	require.NoError(t, err)
	qid := view.QuestionIDs[0]

	_, err = f.svc.SubmitAnswer(exam.ID, dto.ExamAnswerDTO{QuestionID: qid, Answer: json.RawMessage(`"yes"`), ElapsedSecs: 10})
	require.NoError(t, err)

	result, err := f.svc.SubmitAnswer(exam.ID, dto.ExamAnswerDTO{QuestionID: qid, Answer: json.RawMessage(`"no"`), ElapsedSecs: 20})
	assert.ErrorIs(t, err, model.ErrDuplicateSubmission)
	require.NotNil(t, result)
	assert.False(t, result.Accepted)
}
