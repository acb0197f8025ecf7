package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/potatotracker/internal/aggregate"
	"github.com/potatotracker/internal/domain/transaction"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	repo   transaction.Repository
	logger *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, repo transaction.Repository) *TransactionHandler {
	return &TransactionHandler{
		repo:   repo,
		logger: logger,
	}
}

// List retrieves all transactions for a chat in store order
func (h *TransactionHandler) List(c *gin.Context) {
	chatID := c.Param("chatId")

	list, err := h.repo.List(c.Request.Context(), chatID)
	if err != nil {
		h.logger.Error("Failed to list transactions", "chat_id", chatID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionsToResponse(list))
}

// GetHistory retrieves the derived history view for a chat
func (h *TransactionHandler) GetHistory(c *gin.Context) {
	chatID := c.Param("chatId")

	list, err := h.repo.List(c.Request.Context(), chatID)
	if err != nil {
		h.logger.Error("Failed to get history", "chat_id", chatID, "error", err)
		RespondInternalError(c)
		return
	}

	history := aggregate.History(chatID, list)
	RespondOK(c, HistoryResponse{
		ChatID:       history.ChatID,
		Transactions: mapTransactionsToResponse(history.Transactions),
	})
}

// GetByID retrieves a single transaction, returning 404 when absent
func (h *TransactionHandler) GetByID(c *gin.Context) {
	chatID := c.Param("chatId")

	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	tx, err := h.repo.Get(c.Request.Context(), chatID, id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "chat_id", chatID, "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}

// Create records a new transaction; the store assigns the identifier
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	tx := &transaction.Transaction{
		ChatID:      req.ChatID,
		Amount:      req.Amount,
		Date:        date,
		Type:        transaction.Type(req.Type),
		Description: req.Description,
	}

	if err := h.repo.Create(c.Request.Context(), tx); err != nil {
		h.logger.Error("Failed to create transaction", "chat_id", req.ChatID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapTransactionToResponse(tx))
}

// Update replaces the full record; a missing record is a silent no-op (204 either way)
func (h *TransactionHandler) Update(c *gin.Context) {
	chatID := c.Param("chatId")

	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tx := &transaction.Transaction{
		Amount:      req.Amount,
		Date:        req.Date,
		Type:        transaction.Type(req.Type),
		Description: req.Description,
	}

	if err := h.repo.Update(c.Request.Context(), chatID, id, tx); err != nil {
		h.logger.Error("Failed to update transaction", "chat_id", chatID, "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// Delete removes one record; a missing record is a silent no-op (204 either way)
func (h *TransactionHandler) Delete(c *gin.Context) {
	chatID := c.Param("chatId")

	id, ok := parseTransactionID(c)
	if !ok {
		return
	}

	if err := h.repo.Remove(c.Request.Context(), chatID, id); err != nil {
		h.logger.Error("Failed to delete transaction", "chat_id", chatID, "id", id.Hex(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// parseTransactionID validates the :id path parameter as a well-formed store
// identifier, responding 400 on malformed input
func parseTransactionID(c *gin.Context) (primitive.ObjectID, bool) {
	idParam := c.Param("id")
	id, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func mapTransactionToResponse(tx *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID.Hex(),
		ChatID:      tx.ChatID,
		Amount:      tx.Amount,
		Date:        tx.Date.Format(time.RFC3339),
		Type:        string(tx.Type),
		Description: tx.Description,
	}
}

func mapTransactionsToResponse(list []transaction.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(list))
	for i := range list {
		out = append(out, mapTransactionToResponse(&list[i]))
	}
	return out
}
