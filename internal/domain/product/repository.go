package product

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for product persistence.
type Repository interface {
	// List returns the full catalog.
	List(ctx context.Context) ([]*Product, error)

	// GetByID retrieves a product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// GetByIDForUpdate retrieves a product and holds an exclusive row
	// lock for the duration of the surrounding transaction. Callers must
	// run it inside a TransactionManager scope.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// Save inserts a new product.
	Save(ctx context.Context, p *Product) error

	// UpdateStock overwrites the stock count of a product.
	UpdateStock(ctx context.Context, id uuid.UUID, newStock int) error
}
