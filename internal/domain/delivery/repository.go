package delivery

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for delivery persistence.
type Repository interface {
	// GetByID retrieves a delivery by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*Delivery, error)

	// ListByCustomer returns all deliveries recorded for a customer.
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*Delivery, error)

	// Save inserts a new delivery.
	Save(ctx context.Context, d *Delivery) error
}
