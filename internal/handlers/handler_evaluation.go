package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// evaluationHandler serves the preparation-phase village surveys.
type evaluationHandler struct {
	evaluationService portssvc.EvaluationSvcFacade
}

func registerEvaluationRoutes(rg *gin.RouterGroup, evaluationService portssvc.EvaluationSvcFacade) {
	h := &evaluationHandler{evaluationService: evaluationService}

	evaluations := rg.Group("/community-evaluations")
	{
		evaluations.POST("", h.createEvaluation)
		evaluations.GET("", h.listEvaluations)
		evaluations.GET("/:evaluation_id", h.getEvaluation)
	}
}

// createEvaluation godoc
// @Summary Record a community evaluation
// @Description Administrators and facilitators survey a village before forming groups there.
// @Tags evaluations
// @Accept json
// @Produce json
// @Param evaluation body dto.CreateEvaluationRequest true "Evaluation details"
// @Success 201 {object} domain.CommunityEvaluation
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Cycle not found"
// @Failure 409 {object} ErrorResponse "Cycle past preparation"
// @Security BearerAuth
// @Router /community-evaluations [post]
func (h *evaluationHandler) createEvaluation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	evaluation, err := h.evaluationService.CreateEvaluation(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record community evaluation")
		return
	}
	logger.Info("Community evaluation created", slog.Int64("evaluation_id", evaluation.EvaluationID))
	c.JSON(http.StatusCreated, evaluation)
}

// listEvaluations godoc
// @Summary List community evaluations
// @Tags evaluations
// @Produce json
// @Param village query string false "Village name, case-insensitive"
// @Param cycle_id query int false "Cycle ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListEvaluationsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /community-evaluations [get]
func (h *evaluationHandler) listEvaluations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListEvaluationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	evaluations, err := h.evaluationService.ListEvaluations(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list community evaluations")
		return
	}
	c.JSON(http.StatusOK, dto.ListEvaluationsResponse{Evaluations: evaluations})
}

// getEvaluation godoc
// @Summary Get a community evaluation
// @Tags evaluations
// @Produce json
// @Param evaluation_id path int true "Evaluation ID"
// @Success 200 {object} domain.CommunityEvaluation
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /community-evaluations/{evaluation_id} [get]
func (h *evaluationHandler) getEvaluation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	evaluationID, ok := idParam(c, "evaluation_id")
	if !ok {
		return
	}

	evaluation, err := h.evaluationService.GetEvaluation(c.Request.Context(), actor, evaluationID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get community evaluation")
		return
	}
	c.JSON(http.StatusOK, evaluation)
}
