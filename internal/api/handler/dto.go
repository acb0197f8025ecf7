package handler

import "time"

// CreateTransactionRequest represents a request to record a new transaction.
// The record identifier is assigned by the store, never by the caller.
type CreateTransactionRequest struct {
	ChatID      string     `json:"chat_id" binding:"required"`
	Amount      float64    `json:"amount" binding:"gte=0"`
	Date        *time.Time `json:"date,omitempty"`
	Type        string     `json:"type" binding:"required,oneof=Income Expense"`
	Description string     `json:"description"`
}

// UpdateTransactionRequest represents a full-record replacement
type UpdateTransactionRequest struct {
	Amount      float64   `json:"amount" binding:"gte=0"`
	Date        time.Time `json:"date" binding:"required"`
	Type        string    `json:"type" binding:"required,oneof=Income Expense"`
	Description string    `json:"description"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID          string  `json:"id"`
	ChatID      string  `json:"chat_id"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

// HistoryResponse represents the derived history view in API responses
type HistoryResponse struct {
	ChatID       string                `json:"chat_id"`
	Transactions []TransactionResponse `json:"transactions"`
}
