package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/service"
	"github.com/rs/zerolog/log"
)

type PracticeController struct {
	practiceService service.PracticeService
}

func NewPracticeController(ps service.PracticeService) *PracticeController {
	return &PracticeController{practiceService: ps}
}

// StartSession godoc
// @Summary (User) Start a practice session
// @Description Start an untimed practice session, optionally filtered by subject, question type and difficulty.
// @Tags User - Practice
// @Accept json
// @Produce json
// @Param session_data body dto.PracticeSessionCreateDTO true "Session parameters"
// @Success 201 {object} dto.PracticeSessionDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters or no matching questions"
// @Router /practice/sessions [post]
func (c *PracticeController) StartSession(ctx *gin.Context) {
	var req dto.PracticeSessionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User StartSession: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	session, err := c.practiceService.StartSession(req)
	if err != nil {
		log.Error().Err(err).Str("userID", req.UserID).Msg("User StartSession: Service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to start practice session", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, session)
}

// GetSession godoc
// @Summary (User) Get a practice session
// @Description Get a practice session with its attempts so far.
// @Tags User - Practice
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.PracticeSessionDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /practice/sessions/{session_id} [get]
func (c *PracticeController) GetSession(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	session, err := c.practiceService.GetSession(sessionID)
	if err != nil {
		log.Warn().Err(err).Str("sessionID", sessionID).Msg("User GetSession: Session not found")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// NextQuestion godoc
// @Summary (User) Get the next unanswered question
// @Description Return the ID of the next question in the session that has no attempt yet.
// @Tags User - Practice
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} map[string]any "question_id and remaining flag"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /practice/sessions/{session_id}/next [get]
func (c *PracticeController) NextQuestion(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	questionID, remaining, err := c.practiceService.NextQuestion(sessionID)
	if err != nil {
		log.Warn().Err(err).Str("sessionID", sessionID).Msg("User NextQuestion: Session not found")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"question_id": questionID, "remaining": remaining})
}

// SubmitAnswer godoc
// @Summary (User) Submit an answer in a practice session
// @Description Evaluate one answer against a question in the session. Each question accepts exactly one submission.
// @Tags User - Practice
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param answer_data body dto.PracticeAnswerDTO true "Submitted answer"
// @Success 200 {object} dto.PracticeAnswerResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Session or question not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate submission or session not active"
// @Failure 422 {object} dto.ErrorResponse "Answer shape does not match the question"
// @Router /practice/sessions/{session_id}/answers [post]
func (c *PracticeController) SubmitAnswer(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")

	var req dto.PracticeAnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User SubmitAnswer: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.practiceService.SubmitAnswer(sessionID, req)
	if err != nil {
		log.Warn().Err(err).Str("sessionID", sessionID).Str("questionID", req.QuestionID).Msg("User SubmitAnswer: Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// CompleteSession godoc
// @Summary (User) Complete a practice session
// @Description Finish a session and return its results. Completing also folds the session's attempts into the user's mastery records, exactly once.
// @Tags User - Practice
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionResultDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already completed"
// @Router /practice/sessions/{session_id}/complete [post]
func (c *PracticeController) CompleteSession(ctx *gin.Context) {
	sessionID := ctx.Param("session_id")
	result, err := c.practiceService.CompleteSession(sessionID)
	if err != nil {
		log.Warn().Err(err).Str("sessionID", sessionID).Msg("User CompleteSession: Rejected")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	log.Info().Str("sessionID", sessionID).Msg("Practice session completed via API")
	ctx.JSON(http.StatusOK, result)
}
