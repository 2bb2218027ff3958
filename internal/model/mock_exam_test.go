package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExam() *MockExamSession {
	subjects := []Subject{SubjectEnglish, SubjectMaths, SubjectNonVerbalReasoning, SubjectVerbalReasoning}
	limits := []int{900, 1140, 480, 480}
	counts := []int{4, 5, 3, 3}
	types := []QuestionType{TypeVocabulary, TypeFractions, TypeNVRSequences, TypeVRSynonyms}

	exam := &MockExamSession{ID: "exam-1", UserID: "user-1", Status: ExamNotStarted}
	for p := 1; p <= 2; p++ {
		paper := ExamPaper{Number: p}
		for i, subject := range subjects {
			section := ExamSection{
				Subject:       subject,
				TimeLimitSecs: limits[i],
				QuestionTypes: make(map[string]QuestionType),
				Attempts:      make(map[string]ExamAttempt),
			}
			for q := 0; q < counts[i]; q++ {
				qid := fmt.Sprintf("p%d-%s-q%d", p, subject, q)
				section.QuestionIDs = append(section.QuestionIDs, qid)
				section.QuestionTypes[qid] = types[i]
			}
			paper.Sections = append(paper.Sections, section)
		}
		exam.Papers = append(exam.Papers, paper)
	}
	return exam
}

func beginTestExam(t *testing.T) *MockExamSession {
	t.Helper()
	exam := newTestExam()
	require.NoError(t, exam.Begin(time.Now()))
	return exam
}

func TestMockExam_Begin(t *testing.T) {
	exam := newTestExam()

	_, err := exam.CurrentSection()
	assert.ErrorIs(t, err, ErrSessionNotActive)

	require.NoError(t, exam.Begin(time.Now()))
	assert.Equal(t, ExamSectionActive, exam.Status)

	section, err := exam.CurrentSection()
	require.NoError(t, err)
	assert.Equal(t, SubjectEnglish, section.Subject)

	err = exam.Begin(time.Now())
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestMockExam_SectionSequence(t *testing.T) {
	exam := beginTestExam(t)

	wantSubjects := []Subject{SubjectEnglish, SubjectMaths, SubjectNonVerbalReasoning, SubjectVerbalReasoning}
	for p := 0; p < 2; p++ {
		for s, want := range wantSubjects {
			section, err := exam.CurrentSection()
			require.NoError(t, err)
			assert.Equal(t, want, section.Subject, "paper %d section %d", p+1, s)

			status, err := exam.FinishSection()
			require.NoError(t, err)

			lastSection := s == len(wantSubjects)-1
			lastPaper := p == 1
			switch {
			case !lastSection:
				assert.Equal(t, ExamSectionBreak, status)
				_, err = exam.AdvanceSection()
				require.NoError(t, err)
			case !lastPaper:
				assert.Equal(t, ExamPaperBreak, status)
				_, err = exam.AdvanceSection()
				require.NoError(t, err)
			default:
				assert.Equal(t, ExamFinished, status)
			}
		}
	}

	_, err := exam.AdvanceSection()
	assert.ErrorIs(t, err, ErrSessionNotActive)
}

func TestMockExam_SubmitRules(t *testing.T) {
	exam := beginTestExam(t)
	section, err := exam.CurrentSection()
	require.NoError(t, err)
	qid := section.QuestionIDs[0]

	require.NoError(t, exam.Submit(ExamAttempt{QuestionID: qid, Subject: section.Subject, Correct: true}, 30))
	assert.True(t, section.Attempts[qid].Answered)

	t.Run("duplicate rejected", func(t *testing.T) {
		err := exam.Submit(ExamAttempt{QuestionID: qid}, 35)
		assert.ErrorIs(t, err, ErrDuplicateSubmission)
		assert.True(t, section.Attempts[qid].Correct)
	})

	t.Run("question from later section rejected", func(t *testing.T) {
		other := exam.Papers[0].Sections[1].QuestionIDs[0]
		err := exam.Submit(ExamAttempt{QuestionID: other}, 40)
		assert.ErrorIs(t, err, ErrWrongSection)
	})

	t.Run("elapsed is monotone", func(t *testing.T) {
		require.NoError(t, exam.Submit(ExamAttempt{QuestionID: section.QuestionIDs[1]}, 100))
		require.NoError(t, exam.Submit(ExamAttempt{QuestionID: section.QuestionIDs[2]}, 50))
		assert.Equal(t, 100, section.ElapsedSecs)
	})
}

func TestMockExam_TimerClosesSection(t *testing.T) {
	exam := beginTestExam(t)
	section, err := exam.CurrentSection()
	require.NoError(t, err)
	qid := section.QuestionIDs[0]
	require.NoError(t, exam.Submit(ExamAttempt{QuestionID: qid, Correct: true}, 100))

	// A submission arriving at the time limit is rejected and closes the
	// section, recording the remaining questions as unanswered.
	err = exam.Submit(ExamAttempt{QuestionID: section.QuestionIDs[1], Correct: true}, 900)
	assert.ErrorIs(t, err, ErrWrongSection)
	assert.Equal(t, ExamSectionBreak, exam.Status)
	assert.True(t, section.Closed)

	require.Len(t, section.Attempts, len(section.QuestionIDs))
	for _, id := range section.QuestionIDs[1:] {
		a := section.Attempts[id]
		assert.False(t, a.Answered)
		assert.False(t, a.Correct)
	}
	answered := section.Attempts[qid]
	assert.True(t, answered.Answered)
	assert.True(t, answered.Correct)

	// The next section is reachable and accepts answers.
	_, err = exam.AdvanceSection()
	require.NoError(t, err)
	next, err := exam.CurrentSection()
	require.NoError(t, err)
	assert.Equal(t, SubjectMaths, next.Subject)
	require.NoError(t, exam.Submit(ExamAttempt{QuestionID: next.QuestionIDs[0], Correct: true}, 10))
}

func TestMockExam_UnansweredSlotsKeepQuestionTypes(t *testing.T) {
	exam := beginTestExam(t)
	section, err := exam.CurrentSection()
	require.NoError(t, err)
	require.NoError(t, exam.Submit(ExamAttempt{
		QuestionID:   section.QuestionIDs[0],
		Subject:      section.Subject,
		QuestionType: TypeVocabulary,
		Correct:      true,
	}, 60))

	// Closing the section fills the open slots with the types recorded
	// when the section was built.
	_, err = exam.FinishSection()
	require.NoError(t, err)
	for _, qid := range section.QuestionIDs[1:] {
		a := section.Attempts[qid]
		assert.False(t, a.Answered)
		assert.Equal(t, TypeVocabulary, a.QuestionType)
	}

	for exam.Status != ExamFinished {
		if exam.Status == ExamSectionActive {
			_, err := exam.FinishSection()
			require.NoError(t, err)
			continue
		}
		_, err := exam.AdvanceSection()
		require.NoError(t, err)
	}
	require.NoError(t, exam.Complete(time.Now()))

	graded := exam.GradedAttempts()
	require.Len(t, graded, 30)
	for _, g := range graded {
		assert.NotEmpty(t, g.QuestionType, "attempt %s has no question type", g.QuestionID)
		assert.NotEmpty(t, g.Subject)
	}
}

func TestMockExam_ReportElapsed(t *testing.T) {
	exam := beginTestExam(t)

	status, err := exam.ReportElapsed(500)
	require.NoError(t, err)
	assert.Equal(t, ExamSectionActive, status)

	status, err = exam.ReportElapsed(900)
	require.NoError(t, err)
	assert.Equal(t, ExamSectionBreak, status)

	// Inert during a break.
	status, err = exam.ReportElapsed(2000)
	require.NoError(t, err)
	assert.Equal(t, ExamSectionBreak, status)
}

func TestMockExam_CompleteOnlyWhenFinished(t *testing.T) {
	exam := beginTestExam(t)

	err := exam.Complete(time.Now())
	assert.ErrorIs(t, err, ErrSessionNotActive)

	for exam.Status != ExamFinished {
		if exam.Status == ExamSectionActive {
			_, err := exam.FinishSection()
			require.NoError(t, err)
			continue
		}
		_, err := exam.AdvanceSection()
		require.NoError(t, err)
	}

	require.NoError(t, exam.Complete(time.Now()))
	assert.Equal(t, ExamCompleted, exam.Status)
	require.NotNil(t, exam.CompletedAt)

	err = exam.Complete(time.Now())
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestMockExam_Result(t *testing.T) {
	exam := beginTestExam(t)

	// Answer everything in paper 1's english section correctly, then run
	// the rest of the exam without answers.
	section, err := exam.CurrentSection()
	require.NoError(t, err)
	for _, qid := range section.QuestionIDs {
		require.NoError(t, exam.Submit(ExamAttempt{QuestionID: qid, Subject: section.Subject, Correct: true}, 60))
	}
	for exam.Status != ExamFinished {
		if exam.Status == ExamSectionActive {
			_, err := exam.FinishSection()
			require.NoError(t, err)
			continue
		}
		_, err := exam.AdvanceSection()
		require.NoError(t, err)
	}
	require.NoError(t, exam.Complete(time.Now()))

	res := exam.Result()
	assert.Equal(t, 30, res.TotalQuestions)
	assert.Equal(t, 4, res.TotalCorrect)
	assert.InDelta(t, 4.0/30.0, res.OverallAccuracy, 1e-9)

	require.Len(t, res.Papers, 2)
	assert.Equal(t, 4, res.Papers[0].Correct)
	assert.Equal(t, 0, res.Papers[1].Correct)

	english := res.SubjectBreakdown[SubjectEnglish]
	assert.Equal(t, 8, english.Total)
	assert.Equal(t, 4, english.Correct)
	assert.InDelta(t, 0.5, english.Accuracy, 1e-9)
}

func TestStandardizedScore(t *testing.T) {
	assert.Equal(t, 0, StandardizedScore(0, 0))
	assert.Equal(t, 69, StandardizedScore(0, 100))
	assert.Equal(t, 141, StandardizedScore(100, 100))

	// The band is monotone in the raw mark.
	prev := 0
	for correct := 0; correct <= 50; correct++ {
		score := StandardizedScore(correct, 50)
		assert.GreaterOrEqual(t, score, prev)
		prev = score
	}
}
