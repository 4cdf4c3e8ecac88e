package testutil

import (
	"time"

	"github.com/cassiomorais/checkout/internal/domain/customer"
	"github.com/cassiomorais/checkout/internal/domain/money"
	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/google/uuid"
)

func NewTestProduct(name string, priceCents int64, stock int) *product.Product {
	now := time.Now()
	return &product.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: "test product",
		Price:       money.Amount{Cents: priceCents, Currency: "COP"},
		Stock:       stock,
		ImageURL:    "https://example.com/" + name + ".png",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewTestCustomer(email string) *customer.Customer {
	return &customer.Customer{
		ID:        uuid.New(),
		Email:     email,
		FullName:  "Test Customer",
		CreatedAt: time.Now(),
	}
}

func NewPendingTransaction(customerID, productID uuid.UUID, quantity int, productCents, baseCents, deliveryCents int64) *transaction.Transaction {
	now := time.Now()
	return &transaction.Transaction{
		ID:            uuid.New(),
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      quantity,
		ProductAmount: money.Amount{Cents: productCents, Currency: "COP"},
		BaseFee:       money.Amount{Cents: baseCents, Currency: "COP"},
		DeliveryFee:   money.Amount{Cents: deliveryCents, Currency: "COP"},
		TotalAmount:   money.Amount{Cents: productCents + baseCents + deliveryCents, Currency: "COP"},
		Status:        transaction.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func StringPtr(s string) *string {
	return &s
}
