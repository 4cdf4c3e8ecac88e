// Package customer holds the buyer aggregate. Customers are upserted by
// email: a returning email reuses the existing record, never duplicates it.
package customer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer represents a buyer. Immutable after creation.
type Customer struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Phone     *string
	CreatedAt time.Time
}

// New creates a customer with a normalized (lowercased, trimmed) email.
func New(email, fullName string, phone *string) (*Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid customer email %q", email)
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, fmt.Errorf("customer full name cannot be empty")
	}
	return &Customer{
		ID:        uuid.New(),
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		Phone:     phone,
		CreatedAt: time.Now(),
	}, nil
}
