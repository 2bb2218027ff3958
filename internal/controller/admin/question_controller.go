package admin

import (
	"net/http"

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

// CreateQuestion godoc
// @Summary (Admin) Create a new question
// @Description Create a question with its content, answer specification and hints. The answer specification is validated at creation time.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question_data body dto.QuestionCreateDTO true "Question definition"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid question payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin CreateQuestion: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	created, err := c.questionService.CreateQuestion(req)
	if err != nil {
		log.Error().Err(err).Str("subject", req.Subject).Msg("Admin CreateQuestion: Service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to create question", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, created)
}

// ImportQuestions godoc
// @Summary (Admin) Bulk import questions
// @Description Import a batch of questions in one request. Invalid entries are skipped; the response reports how many were stored.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param import_data body dto.QuestionImportDTO true "Batch of question definitions"
// @Success 201 {object} map[string]int "Number of questions imported"
// @Failure 400 {object} dto.ErrorResponse "Invalid batch payload"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions/import [post]
func (c *QuestionController) ImportQuestions(ctx *gin.Context) {
	var req dto.QuestionImportDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Admin ImportQuestions: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}
	if len(req.Questions) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Import must contain at least one question."})
		return
	}

	count, err := c.questionService.ImportQuestions(req)
	if err != nil {
		log.Error().Err(err).Int("batchSize", len(req.Questions)).Msg("Admin ImportQuestions: Service error")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Failed to import questions", Details: []string{err.Error()}})
		return
	}
	log.Info().Int("imported", count).Msg("Admin ImportQuestions: Batch imported")
	ctx.JSON(http.StatusCreated, gin.H{"imported": count})
}
