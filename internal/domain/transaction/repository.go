package transaction

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository manages transaction persistence keyed by chat identity.
// Create assigns the identifier inside the call; Update and Remove are
// silent no-ops when no record matches chatID+id.
type Repository interface {
	List(ctx context.Context, chatID string) ([]Transaction, error)
	Get(ctx context.Context, chatID string, id primitive.ObjectID) (*Transaction, error)
	Create(ctx context.Context, tx *Transaction) error
	Update(ctx context.Context, chatID string, id primitive.ObjectID, tx *Transaction) error
	Remove(ctx context.Context, chatID string, id primitive.ObjectID) error
}

// ErrTransactionNotFound indicates a missing transaction record
type ErrTransactionNotFound struct {
	ID primitive.ObjectID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.ID.Hex()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// An empty target ID matches any ErrTransactionNotFound
	if t.ID.IsZero() {
		return true
	}
	return e.ID == t.ID
}
