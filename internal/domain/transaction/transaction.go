package transaction

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Type tags a transaction as money coming in or going out
type Type string

const (
	TypeIncome  Type = "Income"
	TypeExpense Type = "Expense"
)

// Transaction is a single recorded income or expense for a chat.
// Amount is a non-negative magnitude; the sign is implied by Type.
// ID and ChatID are immutable after creation.
type Transaction struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ChatID      string             `json:"chat_id" bson:"chat_id"`
	Amount      float64            `json:"amount" bson:"amount"`
	Date        time.Time          `json:"date" bson:"date"`
	Type        Type               `json:"type" bson:"type"`
	Description string             `json:"description" bson:"description"`
}

// History is a derived view: a chat and its transactions in store order.
// It is never persisted.
type History struct {
	ChatID       string        `json:"chat_id"`
	Transactions []Transaction `json:"transactions"`
}
