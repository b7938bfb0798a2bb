package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eaglebank/ledger-service/shared/cqrs"
	"github.com/eaglebank/ledger-service/shared/middleware"
	"github.com/eaglebank/ledger-service/shared/models"
)

// TransactionCommander defines the write-side operations used by TransactionHandler.
type TransactionCommander interface {
	CreateTransaction(context.Context, cqrs.CreateTransactionCommand) (string, error)
	UpdateTransaction(context.Context, cqrs.UpdateTransactionCommand) error
	DeleteTransaction(context.Context, cqrs.DeleteTransactionCommand) error
}

// TransactionQuerier defines the read-side operations used by TransactionHandler.
type TransactionQuerier interface {
	ListTransactions(context.Context, cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
	Summary(context.Context, cqrs.SummaryQuery) (models.Summary, error)
}

type TransactionHandler struct {
	commands       TransactionCommander
	queries        TransactionQuerier
	exposeInternal bool
}

type CreateTransactionResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type ListTransactionsResponse struct {
	Transactions []models.TransactionView `json:"transactions"`
}

type SummaryResponse struct {
	Summary models.Summary `json:"summary"`
}

func NewTransactionHandler(commands TransactionCommander, queries TransactionQuerier, exposeInternal bool) *TransactionHandler {
	return &TransactionHandler{commands: commands, queries: queries, exposeInternal: exposeInternal}
}

// Register mounts the owner-scoped routes on rg. Callers are expected to have
// installed the gateway identity middleware.
func (h *TransactionHandler) Register(rg gin.IRoutes) {
	rg.POST("/add", h.CreateTransaction)
	rg.GET("/list", h.ListTransactions)
	rg.PUT("/update/:id", h.UpdateTransaction)
	rg.DELETE("/delete/:id", h.DeleteTransaction)
	rg.GET("/summary", h.Summary)
}

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, "Amount and type are required", validationErrors)
		return
	}

	cmd := cqrs.CreateTransactionCommand{
		UserID: userID,
		Amount: req.Amount.float(),
		Type:   req.Type,
	}
	if req.Desc != nil {
		cmd.Description = *req.Desc
	}

	id, err := h.commands.CreateTransaction(c.Request.Context(), cmd)
	if err != nil {
		respondWithServiceError(c, err, h.exposeInternal)
		return
	}

	c.JSON(http.StatusCreated, CreateTransactionResponse{Message: "Transaction created", ID: id})
}

func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	views, err := h.queries.ListTransactions(c.Request.Context(), cqrs.ListTransactionsQuery{UserID: userID})
	if err != nil {
		respondWithServiceError(c, err, h.exposeInternal)
		return
	}
	if views == nil {
		views = []models.TransactionView{}
	}

	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: views})
}

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.commands.UpdateTransaction(c.Request.Context(), cqrs.UpdateTransactionCommand{
		TransactionID: c.Param("id"),
		UserID:        userID,
		Patch: models.TransactionPatch{
			Amount:      req.Amount.float(),
			Type:        req.Type,
			Description: req.Desc,
		},
	})
	if err != nil {
		respondWithServiceError(c, err, h.exposeInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction updated"})
}

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	err := h.commands.DeleteTransaction(c.Request.Context(), cqrs.DeleteTransactionCommand{
		TransactionID: c.Param("id"),
		UserID:        userID,
	})
	if err != nil {
		respondWithServiceError(c, err, h.exposeInternal)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted"})
}

func (h *TransactionHandler) Summary(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	summary, err := h.queries.Summary(c.Request.Context(), cqrs.SummaryQuery{UserID: userID})
	if err != nil {
		respondWithServiceError(c, err, h.exposeInternal)
		return
	}
	if summary == nil {
		summary = models.Summary{}
	}

	c.JSON(http.StatusOK, SummaryResponse{Summary: summary})
}
