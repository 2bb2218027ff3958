package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plusprep/backend/internal/dto"
	"github.com/plusprep/backend/internal/service"
	"github.com/rs/zerolog/log"
)

type ProgressController struct {
	masteryService        service.MasteryService
	recommendationService service.RecommendationService
}

func NewProgressController(ms service.MasteryService, rs service.RecommendationService) *ProgressController {
	return &ProgressController{masteryService: ms, recommendationService: rs}
}

// GetSummary godoc
// @Summary (User) Get a progress summary
// @Description Get per-subject mastery rollups, weak and strong areas, recommended next steps and recent activity for a user.
// @Tags User - Progress
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} dto.ProgressSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress/{user_id} [get]
func (c *ProgressController) GetSummary(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	summary, err := c.masteryService.GetSummary(userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("User GetSummary: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to build progress summary", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

// GetWeakAreas godoc
// @Summary (User) Get weak areas
// @Description Get the user's weakest question types, lowest mastery first. Only areas with at least one attempt are considered.
// @Tags User - Progress
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Maximum number of areas (default 5)"
// @Success 200 {array} dto.AreaDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid limit value"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress/{user_id}/weak-areas [get]
func (c *ProgressController) GetWeakAreas(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	limit, err := intQuery(ctx, "limit", 5)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit value"})
		return
	}

	areas, err := c.recommendationService.GetWeakAreas(userID, limit)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("User GetWeakAreas: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve weak areas", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, areas)
}

// GetStrongAreas godoc
// @Summary (User) Get strong areas
// @Description Get the user's strongest question types, highest mastery first.
// @Tags User - Progress
// @Produce json
// @Param user_id path string true "User ID"
// @Param limit query int false "Maximum number of areas (default 5)"
// @Success 200 {array} dto.AreaDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid limit value"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress/{user_id}/strong-areas [get]
func (c *ProgressController) GetStrongAreas(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	limit, err := intQuery(ctx, "limit", 5)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid limit value"})
		return
	}

	areas, err := c.recommendationService.GetStrongAreas(userID, limit)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("User GetStrongAreas: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve strong areas", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, areas)
}

// GetRecommendations godoc
// @Summary (User) Get practice recommendations
// @Description Get recommended question types to practice next, ranked by weakest mastery.
// @Tags User - Progress
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} dto.RecommendationDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /progress/{user_id}/recommendations [get]
func (c *ProgressController) GetRecommendations(ctx *gin.Context) {
	userID := ctx.Param("user_id")
	recs, err := c.recommendationService.GetRecommendations(userID)
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("User GetRecommendations: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve recommendations", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, recs)
}
