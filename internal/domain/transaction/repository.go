package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for transaction persistence.
type Repository interface {
	// GetByID retrieves a transaction by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// ListByCustomer returns all transactions for a customer, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Transaction, error)

	// ListPendingOlderThan returns up to limit PENDING transactions whose
	// last update is older than age. Used by the reconciliation sweeper.
	ListPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*Transaction, error)

	// Create inserts a new transaction.
	Create(ctx context.Context, t *Transaction) error

	// Update overwrites an existing transaction by id.
	Update(ctx context.Context, t *Transaction) error
}
