// Package delivery holds the shipping record created once per checkout
// attempt. Deliveries are never reused between transactions.
package delivery

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Delivery represents the shipping destination of one checkout attempt.
type Delivery struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Address    string
	City       string
	Region     string
	PostalCode *string
	CreatedAt  time.Time
}

// New creates a delivery for the given customer.
func New(customerID uuid.UUID, address, city, region string, postalCode *string) (*Delivery, error) {
	if customerID == uuid.Nil {
		return nil, fmt.Errorf("delivery requires a customer id")
	}
	if strings.TrimSpace(address) == "" {
		return nil, fmt.Errorf("delivery address cannot be empty")
	}
	if strings.TrimSpace(city) == "" {
		return nil, fmt.Errorf("delivery city cannot be empty")
	}
	if strings.TrimSpace(region) == "" {
		return nil, fmt.Errorf("delivery region cannot be empty")
	}
	return &Delivery{
		ID:         uuid.New(),
		CustomerID: customerID,
		Address:    strings.TrimSpace(address),
		City:       strings.TrimSpace(city),
		Region:     strings.TrimSpace(region),
		PostalCode: postalCode,
		CreatedAt:  time.Now(),
	}, nil
}
