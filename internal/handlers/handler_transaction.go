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

// transactionHandler drives the ledger workflow: record, approve, reject, complete.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newTransactionHandler(ls portssvc.LedgerSvcFacade) *transactionHandler {
	return &transactionHandler{ledgerService: ls}
}

func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newTransactionHandler(ledgerService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", h.createTransaction)
		txns.GET("/:transaction_id", h.getTransaction)
		txns.POST("/:transaction_id/approve", h.approveTransaction)
		txns.POST("/:transaction_id/reject", h.rejectTransaction)
		txns.POST("/:transaction_id/complete", h.completeTransaction)
	}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Creates a pending ledger entry. Members record their own; the treasurer and staff may record for others.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} domain.Transaction
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request body")
		return
	}

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to record transaction")
		return
	}
	logger.Info("Transaction recorded",
		slog.Int64("transaction_id", txn.TransactionID),
		slog.Int64("group_id", txn.GroupID),
		slog.String("type", string(txn.Type)))
	c.JSON(http.StatusCreated, txn)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transaction_id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	txnID, ok := idParam(c, "transaction_id")
	if !ok {
		return
	}

	txn, err := h.ledgerService.GetTransactionByID(c.Request.Context(), actor, txnID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to get transaction")
		return
	}
	c.JSON(http.StatusOK, txn)
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Tags transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not pending"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/approve [post]
func (h *transactionHandler) approveTransaction(c *gin.Context) {
	h.transition(c, "approve", func(actor domain.Actor, id int64) (*domain.Transaction, error) {
		return h.ledgerService.ApproveTransaction(c.Request.Context(), actor, id)
	})
}

// rejectTransaction godoc
// @Summary Reject a pending transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Param reason body dto.RejectTransactionRequest false "Reason"
// @Success 200 {object} domain.Transaction
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not pending"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/reject [post]
func (h *transactionHandler) rejectTransaction(c *gin.Context) {
	var req dto.RejectTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, middleware.GetLoggerFromCtx(c.Request.Context()), err, "Invalid request body")
			return
		}
	}
	h.transition(c, "reject", func(actor domain.Actor, id int64) (*domain.Transaction, error) {
		return h.ledgerService.RejectTransaction(c.Request.Context(), actor, id, req.Reason)
	})
}

// completeTransaction godoc
// @Summary Complete an approved transaction
// @Description Applies the amount to the group totals.
// @Tags transactions
// @Produce json
// @Param transaction_id path int true "Transaction ID"
// @Success 200 {object} domain.Transaction
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not approved or stale"
// @Security BearerAuth
// @Router /transactions/{transaction_id}/complete [post]
func (h *transactionHandler) completeTransaction(c *gin.Context) {
	h.transition(c, "complete", func(actor domain.Actor, id int64) (*domain.Transaction, error) {
		return h.ledgerService.CompleteTransaction(c.Request.Context(), actor, id)
	})
}

func (h *transactionHandler) transition(c *gin.Context, action string, apply func(domain.Actor, int64) (*domain.Transaction, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c, logger)
	if !ok {
		return
	}
	txnID, ok := idParam(c, "transaction_id")
	if !ok {
		return
	}

	txn, err := apply(actor, txnID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to "+action+" transaction")
		return
	}
	logger.Info("Transaction status changed",
		slog.Int64("transaction_id", txnID),
		slog.String("status", string(txn.Status)))
	c.JSON(http.StatusOK, txn)
}
