package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/service"
	"github.com/rs/zerolog/log"
)

type MockExamController struct {
	examService service.MockExamService
}

func NewMockExamController(es service.MockExamService) *MockExamController {
	return &MockExamController{examService: es}
}

// StartExam godoc
// @Summary (User) Create a mock exam
// @Description Create a full two-paper mock exam with the standard section plan. The exam stays in not_started until begun.
// @Tags User - Mock Exams
// @Accept json
// @Produce json
// @Param exam_data body dto.MockExamCreateDTO true "User starting the exam"
// @Success 201 {object} dto.MockExamDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request or not enough questions in the bank"
// @Router /mock-exams [post]
func (c *MockExamController) StartExam(ctx *gin.Context) {
	var req dto.MockExamCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User StartExam: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	exam, err := c.examService.StartExam(req)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("User StartExam: Service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create mock exam", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, exam)
}

// BeginExam godoc
// @Summary (User) Begin a mock exam
// @Description Move the exam from not_started into its first section.
// @Tags User - Mock Exams
// @Produce json
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.ExamStateDTO
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "Exam already begun"
// @Router /mock-exams/{exam_id}/begin [post]
func (c *MockExamController) BeginExam(ctx *gin.Context) {
	examID := ctx.Param("exam_id")
	state, err := c.examService.Begin(examID)
	if err != nil {
		log.Warn().Err(err).Str("examID", examID).Msg("User BeginExam: Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// GetCurrentSection godoc
// @Summary (User) Get the current exam section
// @Description Get the active section with its questions, time limit and elapsed time.
// @Tags User - Mock Exams
// @Produce json
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.SectionViewDTO
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "No section is active"
// @Router /mock-exams/{exam_id}/current-section [get]
func (c *MockExamController) GetCurrentSection(ctx *gin.Context) {
	examID := ctx.Param("exam_id")
	view, err := c.examService.GetCurrentSection(examID)
	if err != nil {
		log.Warn().Err(err).Str("examID", examID).Msg("User GetCurrentSection: Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// SubmitAnswer godoc
// @Summary (User) Submit an exam answer
// @Description Submit one answer within the active section. Answers for questions outside the current section, duplicates, and answers after the section clock has run out are rejected.
// @Tags User - Mock Exams
// @Accept json
// @Produce json
// @Param exam_id path string true "Exam ID"
// @Param answer_data body dto.ExamAnswerDTO true "Submitted answer with the caller's section clock"
// @Success 200 {object} dto.ExamAnswerResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Exam or question not found"
// @Failure 409 {object} dto.ErrorResponse "Wrong section, duplicate, or section expired"
// @Failure 422 {object} dto.ErrorResponse "Answer shape does not match the question"
// @Router /mock-exams/{exam_id}/answers [post]
func (c *MockExamController) SubmitAnswer(ctx *gin.Context) {
	examID := ctx.Param("exam_id")

	var req dto.ExamAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SubmitAnswer (exam): Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.examService.SubmitAnswer(examID, req)
	if err != nil {
		log.Warn().Err(err).Str("examID", examID).Str("questionID", req.QuestionID).Msg("User SubmitAnswer (exam): Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// FinishSection godoc
// @Summary (User) Finish the current section early
// @Description Close the active section before its time limit. Unanswered questions are recorded as unanswered.
// @Tags User - Mock Exams
// @Produce json
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.ExamStateDTO
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "No section is active"
// @Router /mock-exams/{exam_id}/finish-section [post]
func (c *MockExamController) FinishSection(ctx *gin.Context) {
	examID := ctx.Param("exam_id")
	state, err := c.examService.FinishSection(examID)
	if err != nil {
		log.Warn().Err(err).Str("examID", examID).Msg("User FinishSection: Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// ReportElapsed godoc
// @Summary (User) Report section clock
// @Description Report how many seconds have elapsed in the active section. When the reported figure reaches the time limit the section closes automatically.
// @Tags User - Mock Exams
// @Accept json
// @Produce json
// @Param exam_id path string true "Exam ID"
// @Param elapsed_data body dto.ElapsedDTO true "Elapsed seconds observed by the caller"
// @Success 200 {object} dto.ExamStateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /mock-exams/{exam_id}/elapsed [post]
func (c *MockExamController) ReportElapsed(ctx *gin.Context) {
	examID := ctx.Param("exam_id")

	var req dto.ElapsedDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	state, err := c.examService.ReportElapsed(examID, req.ElapsedSecs)
	if err != nil {
		log.Warn().Err(err).Str("examID", examID).Msg("User ReportElapsed: Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// AdvanceSection godoc
// @Summary (User) Advance out of a break
// @Description Move from a section or paper break into the next section.
// @Tags User - Mock Exams
// @Produce json
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.ExamStateDTO
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "Exam is not in a break"
// @Router /mock-exams/{exam_id}/next-section [post]
func (c *MockExamController) AdvanceSection(ctx *gin.Context) {
	examID := ctx.Param("exam_id")
	state, err := c.examService.AdvanceSection(examID)
	if err != nil {
		log.Warn().Err(err).Str("examID", examID).Msg("User AdvanceSection: Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// CompleteExam godoc
// @Summary (User) Complete a finished exam
// @Description Complete an exam whose last section has closed and return the full result breakdown. Completing also folds the exam's attempts into the user's mastery records, exactly once.
// @Tags User - Mock Exams
// @Produce json
// @Param exam_id path string true "Exam ID"
// @Success 200 {object} dto.MockExamResultDTO
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "Exam has sections remaining or is already completed"
// @Router /mock-exams/{exam_id}/complete [post]
func (c *MockExamController) CompleteExam(ctx *gin.Context) {
	examID := ctx.Param("exam_id")
	result, err := c.examService.CompleteExam(examID)
	if err != nil {
		log.Warn().Err(err).Str("examID", examID).Msg("User CompleteExam: Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	log.Info().Str("examID", examID).Msg("Mock exam completed via API")
	ctx.JSON(http.StatusOK, result)
}
