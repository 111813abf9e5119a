package handlers

import (
	"net/http"

	"github.com/SscSPs/avec_backend/internal/core/domain"
	portssvc "github.com/SscSPs/avec_backend/internal/core/ports/services"
	"github.com/SscSPs/avec_backend/internal/dto"
	"github.com/SscSPs/avec_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(rs portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/supervision", h.getSupervision)
		reports.GET("/transactions/stats", h.getTransactionStats)
		reports.GET("/alerts", h.getAlerts)
	}
}

// getSupervision godoc
// @Summary Supervision dashboard
// @Description Group and member counts per phase plus aggregate savings, loans and solidarity. Staff only.
// @Tags reports
// @Produce json
// @Success 200 {object} domain.SupervisionDashboard
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/supervision [get]
func (h *reportingHandler) getSupervision(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	dashboard, err := h.reportingService.GetSupervisionDashboard(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build supervision dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// getTransactionStats godoc
// @Summary Ledger statistics
// @Tags reports
// @Produce json
// @Param period query string false "week, month or year" default(month)
// @Param groupID query int false "Restrict to one group"
// @Success 200 {object} domain.TransactionStats
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/transactions/stats [get]
func (h *reportingHandler) getTransactionStats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var params dto.TransactionStatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	stats, err := h.reportingService.GetTransactionStats(c.Request.Context(), actor, domain.StatsPeriod(params.Period), params.GroupID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to compute transaction statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// getAlerts godoc
// @Summary Operational alerts
// @Description Cycles ending soon and overdue loans. Staff only.
// @Tags reports
// @Produce json
// @Success 200 {object} domain.Alerts
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/alerts [get]
func (h *reportingHandler) getAlerts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	alerts, err := h.reportingService.GetAlerts(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, logger, err, "Failed to load alerts")
		return
	}
	c.JSON(http.StatusOK, alerts)
}
