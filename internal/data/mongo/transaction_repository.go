package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/potatotracker/internal/domain/transaction"
)

const (
	// TransactionCollectionName is the name of the transaction collection in MongoDB
	TransactionCollectionName = "transactions"
)

// TransactionRepository implements the transaction.Repository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB transaction repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) transaction.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// List retrieves all transactions for a chat in insertion order.
// An empty result is not an error.
func (r *TransactionRepository) List(ctx context.Context, chatID string) ([]transaction.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	cursor, err := collection.Find(ctx, bson.M{"chat_id": chatID})
	if err != nil {
		r.logger.Error("Failed to list transactions",
			"chat_id", chatID,
			"error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []transaction.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		r.logger.Error("Failed to decode transactions",
			"chat_id", chatID,
			"error", err)
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	return transactions, nil
}

// Get retrieves a single transaction by chat ID and record ID.
// Returns ErrTransactionNotFound when no record matches.
func (r *TransactionRepository) Get(ctx context.Context, chatID string, id primitive.ObjectID) (*transaction.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"chat_id": chatID, "_id": id}
	var tx transaction.Transaction
	err := collection.FindOne(ctx, filter).Decode(&tx)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction",
			"chat_id", chatID,
			"transaction_id", id.Hex(),
			"error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

// Create stores a new transaction, assigning its identifier inside the call.
func (r *TransactionRepository) Create(ctx context.Context, tx *transaction.Transaction) error {
	collection := r.db.Collection(TransactionCollectionName)

	tx.ID = primitive.NewObjectID()
	if _, err := collection.InsertOne(ctx, tx); err != nil {
		r.logger.Error("Failed to create transaction",
			"chat_id", tx.ChatID,
			"error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// Update replaces the full record matching chatID+id. When nothing matches
// the call is a silent no-op; callers must not rely on an error being raised.
func (r *TransactionRepository) Update(ctx context.Context, chatID string, id primitive.ObjectID, tx *transaction.Transaction) error {
	collection := r.db.Collection(TransactionCollectionName)

	// Identifier and owning chat are immutable
	tx.ID = id
	tx.ChatID = chatID

	filter := bson.M{"chat_id": chatID, "_id": id}
	if _, err := collection.ReplaceOne(ctx, filter, tx); err != nil {
		r.logger.Error("Failed to update transaction",
			"chat_id", chatID,
			"transaction_id", id.Hex(),
			"error", err)
		return fmt.Errorf("failed to update transaction: %w", err)
	}

	return nil
}

// Remove deletes one record; a no-op if the record is absent.
func (r *TransactionRepository) Remove(ctx context.Context, chatID string, id primitive.ObjectID) error {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"chat_id": chatID, "_id": id}
	if _, err := collection.DeleteOne(ctx, filter); err != nil {
		r.logger.Error("Failed to remove transaction",
			"chat_id", chatID,
			"transaction_id", id.Hex(),
			"error", err)
		return fmt.Errorf("failed to remove transaction: %w", err)
	}

	return nil
}
