package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// formationHandler serves a group's training curriculum.
type formationHandler struct {
	formationService portssvc.FormationSvcFacade
}

func registerFormationRoutes(rg *gin.RouterGroup, formationService portssvc.FormationSvcFacade) {
	h := &formationHandler{formationService: formationService}

	modules := rg.Group("/groups/:group_id/formation-modules")
	{
		modules.POST("", h.createModule)
		modules.GET("", h.listModules)
		modules.GET("/:module_id", h.getModule)
		modules.POST("/:module_id/complete", h.completeModule)
	}
}

// createModule godoc
// @Summary Add a formation module
// @Description Appends a training module to the group's curriculum unless a position is given.
// @Tags formation
// @Accept json
// @Produce json
// @Param group_id path int true "Group ID"
// @Param module body dto.CreateFormationModuleRequest true "Module details"
// @Success 201 {object} domain.FormationModule
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Group closed or position taken"
// @Security BearerAuth
// @Router /groups/{group_id}/formation-modules [post]
func (h *formationHandler) createModule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	var req dto.CreateFormationModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	module, err := h.formationService.CreateModule(c.Request.Context(), actor, groupID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create formation module")
		return
	}
	c.JSON(http.StatusCreated, module)
}

// listModules godoc
// @Summary List a group's formation modules
// @Tags formation
// @Produce json
// @Param group_id path int true "Group ID"
// @Success 200 {object} dto.ListFormationModulesResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/formation-modules [get]
func (h *formationHandler) listModules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}

	modules, err := h.formationService.ListModules(c.Request.Context(), actor, groupID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list formation modules")
		return
	}
	completed, total := domain.FormationProgress(modules)
	c.JSON(http.StatusOK, dto.ListFormationModulesResponse{Modules: modules, Completed: completed, Total: total})
}

// getModule godoc
// @Summary Get a formation module
// @Tags formation
// @Produce json
// @Param group_id path int true "Group ID"
// @Param module_id path int true "Module ID"
// @Success 200 {object} domain.FormationModule
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /groups/{group_id}/formation-modules/{module_id} [get]
func (h *formationHandler) getModule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}
	moduleID, ok := idParam(c, "module_id")
	if !ok {
		return
	}

	module, err := h.formationService.GetModule(c.Request.Context(), actor, groupID, moduleID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get formation module")
		return
	}
	c.JSON(http.StatusOK, module)
}

// completeModule godoc
// @Summary Mark a formation module as taught
// @Tags formation
// @Produce json
// @Param group_id path int true "Group ID"
// @Param module_id path int true "Module ID"
// @Success 200 {object} domain.FormationModule
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already completed"
// @Security BearerAuth
// @Router /groups/{group_id}/formation-modules/{module_id}/complete [post]
func (h *formationHandler) completeModule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	groupID, ok := idParam(c, "group_id")
	if !ok {
		return
	}
	moduleID, ok := idParam(c, "module_id")
	if !ok {
		return
	}

	module, err := h.formationService.CompleteModule(c.Request.Context(), actor, groupID, moduleID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to complete formation module")
		return
	}
	logger.Info("Formation module completed", slog.Int64("module_id", moduleID), slog.Int64("group_id", groupID))
	c.JSON(http.StatusOK, module)
}
