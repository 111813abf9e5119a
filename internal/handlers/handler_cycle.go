package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type cycleHandler struct {
	cycleService portssvc.CycleSvcFacade
	now          func() time.Time
}

func newCycleHandler(cs portssvc.CycleSvcFacade) *cycleHandler {
	return &cycleHandler{cycleService: cs, now: time.Now}
}

func registerCycleRoutes(rg *gin.RouterGroup, cycleService portssvc.CycleSvcFacade) {
	h := newCycleHandler(cycleService)

	cycles := rg.Group("/cycles")
	{
		cycles.POST("", h.createCycle)
		cycles.GET("", h.listCycles)
		cycles.GET("/:cycle_id", h.getCycle)
		cycles.PUT("/:cycle_id", h.updateCycle)
		cycles.DELETE("/:cycle_id", h.deleteCycle)
		cycles.POST("/:cycle_id/advance-phase", h.advancePhase)
		cycles.GET("/:cycle_id/sharing-readiness", h.sharingReadiness)
	}
}

// createCycle godoc
// @Summary Create a savings cycle
// @Description Opens a cycle in the preparation phase. Facilitators and administrators only.
// @Tags cycles
// @Accept json
// @Produce json
// @Param cycle body dto.CreateCycleRequest true "Cycle details"
// @Success 201 {object} dto.CycleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /cycles [post]
func (h *cycleHandler) createCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	cycle, err := h.cycleService.CreateCycle(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create cycle")
		return
	}
	logger.Info("Cycle created", slog.Int64("cycle_id", cycle.CycleID))
	c.JSON(http.StatusCreated, dto.ToCycleResponse(cycle, h.now()))
}

// listCycles godoc
// @Summary List cycles
// @Tags cycles
// @Produce json
// @Param status query string false "active or inactive"
// @Param phase query string false "Phase name"
// @Param organizationID query int false "Organization"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListCyclesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /cycles [get]
func (h *cycleHandler) listCycles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.ListCyclesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	cycles, err := h.cycleService.ListCycles(c.Request.Context(), actor, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list cycles")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCyclesResponse(cycles, h.now()))
}

// getCycle godoc
// @Summary Get a cycle
// @Tags cycles
// @Produce json
// @Param cycle_id path int true "Cycle ID"
// @Success 200 {object} dto.CycleResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /cycles/{cycle_id} [get]
func (h *cycleHandler) getCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	cycleID, ok := idParam(c, "cycle_id")
	if !ok {
		return
	}

	cycle, err := h.cycleService.GetCycleByID(c.Request.Context(), actor, cycleID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get cycle")
		return
	}
	c.JSON(http.StatusOK, dto.ToCycleResponse(cycle, h.now()))
}

// updateCycle godoc
// @Summary Update a cycle
// @Description Phase and completion cannot be edited here.
// @Tags cycles
// @Accept json
// @Produce json
// @Param cycle_id path int true "Cycle ID"
// @Param cycle body dto.UpdateCycleRequest true "Fields to change"
// @Success 200 {object} dto.CycleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /cycles/{cycle_id} [put]
func (h *cycleHandler) updateCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	cycleID, ok := idParam(c, "cycle_id")
	if !ok {
		return
	}

	var req dto.UpdateCycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	cycle, err := h.cycleService.UpdateCycle(c.Request.Context(), actor, cycleID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update cycle")
		return
	}
	c.JSON(http.StatusOK, dto.ToCycleResponse(cycle, h.now()))
}

// deleteCycle godoc
// @Summary Delete a cycle
// @Description Refused while any group in the cycle is active.
// @Tags cycles
// @Param cycle_id path int true "Cycle ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /cycles/{cycle_id} [delete]
func (h *cycleHandler) deleteCycle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	cycleID, ok := idParam(c, "cycle_id")
	if !ok {
		return
	}

	if err := h.cycleService.DeleteCycle(c.Request.Context(), actor, cycleID); err != nil {
		respondWithError(c, logger, err, "Failed to delete cycle")
		return
	}
	logger.Info("Cycle deleted", slog.Int64("cycle_id", cycleID))
	c.Status(http.StatusNoContent)
}

// advancePhase godoc
// @Summary Advance a cycle to its next phase
// @Tags cycles
// @Produce json
// @Param cycle_id path int true "Cycle ID"
// @Success 200 {object} dto.CycleResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Cycle already completed"
// @Security BearerAuth
// @Router /cycles/{cycle_id}/advance-phase [post]
func (h *cycleHandler) advancePhase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	cycleID, ok := idParam(c, "cycle_id")
	if !ok {
		return
	}

	cycle, err := h.cycleService.AdvancePhase(c.Request.Context(), actor, cycleID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to advance cycle phase")
		return
	}
	logger.Info("Cycle phase advanced", slog.Int64("cycle_id", cycleID), slog.String("phase", string(cycle.Phase)))
	c.JSON(http.StatusOK, dto.ToCycleResponse(cycle, h.now()))
}

// sharingReadiness godoc
// @Summary Whether a cycle has reached its end date
// @Tags cycles
// @Produce json
// @Param cycle_id path int true "Cycle ID"
// @Success 200 {object} dto.ReadinessResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /cycles/{cycle_id}/sharing-readiness [get]
func (h *cycleHandler) sharingReadiness(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	cycleID, ok := idParam(c, "cycle_id")
	if !ok {
		return
	}

	ready, err := h.cycleService.IsReadyForSharing(c.Request.Context(), actor, cycleID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to check cycle readiness")
		return
	}
	c.JSON(http.StatusOK, dto.ReadinessResponse{CycleID: cycleID, ReadyForSharing: ready})
}
