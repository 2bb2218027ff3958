package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(qs service.QuestionService) *QuestionController {
	return &QuestionController{questionService: qs}
}

// GetQuestion godoc
// @Summary (User) Get a question
// @Description Get one question by ID. The answer specification is never included in the response.
// @Tags User - Questions
// @Produce json
// @Param question_id path string true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{question_id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	questionID := ctx.Param("question_id")
	question, err := c.questionService.GetQuestion(questionID)
	if err != nil {
		log.Warn().Err(err).Str("questionID", questionID).Msg("User GetQuestion: Question not found")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// ListQuestions godoc
// @Summary (User) List questions
// @Description List questions filtered by subject, question type and difficulty.
// @Tags User - Questions
// @Produce json
// @Param subject query string false "Subject filter (english, maths, non_verbal_reasoning, verbal_reasoning)"
// @Param question_type query string false "Question type filter"
// @Param difficulty query int false "Difficulty level 1-5"
// @Param limit query int false "Maximum number of questions (default 20)"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid filter values"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	difficulty, err := intQuery(ctx, "difficulty", 0)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid difficulty value"})
		return
	}
	limit, err := intQuery(ctx, "limit", 20)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit value"})
		return
	}

	questions, err := c.questionService.ListQuestions(ctx.Query("subject"), ctx.Query("question_type"), difficulty, limit)
	if err != nil {
		log.Error().Err(err).Msg("User ListQuestions: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetHints godoc
// @Summary (User) Get hints for a question
// @Description Get a question's hints up to the requested level, in ascending level order.
// @Tags User - Questions
// @Produce json
// @Param question_id path string true "Question ID"
// @Param max_level query int false "Highest hint level to reveal (default: all)"
// @Success 200 {array} dto.HintDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid max_level value"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{question_id}/hints [get]
func (c *QuestionController) GetHints(ctx *gin.Context) {
	questionID := ctx.Param("question_id")
	maxLevel, err := intQuery(ctx, "max_level", 0)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid max_level value"})
		return
	}

	hints, err := c.questionService.GetHints(questionID, maxLevel)
	if err != nil {
		log.Warn().Err(err).Str("questionID", questionID).Msg("User GetHints: Question not found")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, hints)
}

// CheckAnswer godoc
// @Summary (User) Check an answer outside a session
// @Description Evaluate a single submitted answer against the question's stored answer specification and return correctness, a hint-adjusted score and the canonical answer.
// @Tags User - Questions
// @Accept json
// @Produce json
// @Param question_id path string true "Question ID"
// @Param answer_data body dto.AnswerCheckDTO true "Submitted answer and hints used"
// @Success 200 {object} dto.AnswerCheckResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 422 {object} dto.ErrorResponse "Answer shape does not match the question"
// @Router /questions/{question_id}/check [post]
func (c *QuestionController) CheckAnswer(ctx *gin.Context) {
	questionID := ctx.Param("question_id")

	var req dto.AnswerCheckDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("User CheckAnswer: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	result, err := c.questionService.CheckAnswer(questionID, req)
	if err != nil {
		log.Warn().Err(err).Str("questionID", questionID).Msg("User CheckAnswer: Evaluation failed")
		ctx.JSON(statusForError(err), dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func intQuery(ctx *gin.Context, name string, fallback int) (int, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
