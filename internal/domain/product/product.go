// Package product holds the catalog aggregate.
package product

import (
	"fmt"
	"time"

	"github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/money"
	"github.com/google/uuid"
)

// Product represents a catalog entry with a live stock count.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       money.Amount
	Stock       int
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates a product. Used by catalog seeding; the checkout flow only
// reads and mutates existing products.
func New(name, description string, price money.Amount, stock int, imageURL string) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}
	if err := price.Validate(); err != nil {
		return nil, fmt.Errorf("product price: %w", err)
	}
	if stock < 0 {
		return nil, fmt.Errorf("product stock cannot be negative, got %d", stock)
	}
	now := time.Now()
	return &Product{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasStock reports whether the product can cover quantity units.
func (p *Product) HasStock(quantity int) bool {
	return quantity > 0 && p.Stock >= quantity
}

// DecrementStock removes quantity units from stock. The decrement is
// rejected, never clamped, when it would drive stock negative.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("decrement quantity must be positive, got %d", quantity)
	}
	if p.Stock < quantity {
		return errors.NewInsufficientStock(p.ID, quantity, p.Stock)
	}
	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	return nil
}

// Restock adds quantity units back to stock.
func (p *Product) Restock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("restock quantity must be positive, got %d", quantity)
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now()
	return nil
}
