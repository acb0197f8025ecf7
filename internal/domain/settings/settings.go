package settings

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings holds per-chat preferences. At most one record exists per chat.
// An empty Currency and a nil SalaryDay mean "not set".
type Settings struct {
	ID        primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	ChatID    string             `json:"chat_id" bson:"chat_id"`
	Currency  string             `json:"currency,omitempty" bson:"currency,omitempty"`
	SalaryDay *int               `json:"salary_day,omitempty" bson:"salary_day,omitempty"`
}

// Repository manages settings persistence keyed by chat identity.
// Get returns nil (and no error) when the chat has no settings record.
// Save has merge-upsert semantics: only set incoming fields overwrite
// stored ones, so updating the currency never erases the salary day.
type Repository interface {
	Get(ctx context.Context, chatID string) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}
