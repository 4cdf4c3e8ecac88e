package customer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for customer persistence.
type Repository interface {
	// GetByID retrieves a customer by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// GetByEmail retrieves a customer by normalized email. Returns a
	// CUSTOMER_NOT_FOUND domain error when no record exists.
	GetByEmail(ctx context.Context, email string) (*Customer, error)

	// Save inserts a new customer.
	Save(ctx context.Context, c *Customer) error
}
