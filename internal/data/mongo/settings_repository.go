package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/potatotracker/internal/domain/settings"
)

const (
	// SettingsCollectionName is the name of the settings collection in MongoDB
	SettingsCollectionName = "settings"
)

// SettingsRepository implements the settings.Repository interface for MongoDB
type SettingsRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSettingsRepository creates a new MongoDB settings repository
func NewSettingsRepository(logger *slog.Logger, db *mongo.Database) settings.Repository {
	return &SettingsRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves the settings record for a chat, or nil when none exists.
func (r *SettingsRepository) Get(ctx context.Context, chatID string) (*settings.Settings, error) {
	collection := r.db.Collection(SettingsCollectionName)

	filter := bson.M{"chat_id": chatID}
	var s settings.Settings
	err := collection.FindOne(ctx, filter).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // No settings for this chat yet
		}
		r.logger.Error("Failed to get settings",
			"chat_id", chatID,
			"error", err)
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &s, nil
}

// Save merge-upserts the settings record for s.ChatID: only set incoming
// fields overwrite stored ones, unset fields leave stored values untouched.
func (r *SettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	collection := r.db.Collection(SettingsCollectionName)

	existing, err := r.Get(ctx, s.ChatID)
	if err != nil {
		return err
	}

	if existing == nil {
		s.ID = primitive.NewObjectID()
		if _, err := collection.InsertOne(ctx, s); err != nil {
			r.logger.Error("Failed to insert settings",
				"chat_id", s.ChatID,
				"error", err)
			return fmt.Errorf("failed to insert settings: %w", err)
		}
		return nil
	}

	if s.Currency != "" {
		existing.Currency = s.Currency
	}
	if s.SalaryDay != nil {
		existing.SalaryDay = s.SalaryDay
	}

	filter := bson.M{"chat_id": s.ChatID}
	if _, err := collection.ReplaceOne(ctx, filter, existing); err != nil {
		r.logger.Error("Failed to replace settings",
			"chat_id", s.ChatID,
			"error", err)
		return fmt.Errorf("failed to replace settings: %w", err)
	}

	return nil
}
