// Package transaction holds the payment transaction aggregate and its
// state machine. A transaction is created PENDING, moves to exactly one
// terminal status, and stays there: reconciliation may only rewrite a
// record that is still PENDING, never one that already settled.
package transaction

import (
	"fmt"
	"time"

	"github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/money"
	"github.com/google/uuid"
)

// Status represents the transaction status in the state machine.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusDeclined Status = "DECLINED"
	StatusVoided   Status = "VOIDED"
	StatusError    Status = "ERROR"
)

// Transaction records one purchase attempt and its settlement outcome.
type Transaction struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	DeliveryID *uuid.UUID
	Quantity   int

	// TotalAmount is fixed at creation as the sum of the three
	// components and is never recomputed afterward.
	ProductAmount money.Amount
	BaseFee       money.Amount
	DeliveryFee   money.Amount
	TotalAmount   money.Amount

	Status Status

	// Gateway correlation fields, set on approval or payment creation.
	GatewayTransactionID *string
	GatewayReference     *string

	PaymentMethod *string
	CardLastFour  *string
	ErrorMessage  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a PENDING transaction with TotalAmount computed as the sum
// of the product amount and both fees.
func New(customerID, productID uuid.UUID, quantity int, productAmount, baseFee, deliveryFee money.Amount) (*Transaction, error) {
	if customerID == uuid.Nil || productID == uuid.Nil {
		return nil, fmt.Errorf("transaction requires customer and product ids")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("transaction quantity must be positive, got %d", quantity)
	}
	if err := productAmount.Validate(); err != nil {
		return nil, fmt.Errorf("product amount: %w", err)
	}
	if productAmount.Currency != baseFee.Currency || productAmount.Currency != deliveryFee.Currency {
		return nil, fmt.Errorf("transaction amounts must share a currency")
	}

	now := time.Now()
	return &Transaction{
		ID:            uuid.New(),
		CustomerID:    customerID,
		ProductID:     productID,
		Quantity:      quantity,
		ProductAmount: productAmount,
		BaseFee:       baseFee,
		DeliveryFee:   deliveryFee,
		TotalAmount:   productAmount.Add(baseFee).Add(deliveryFee),
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsTerminal reports whether the transaction reached a final status.
func (t *Transaction) IsTerminal() bool {
	return t.Status != StatusPending
}

// Approve moves a PENDING transaction to APPROVED and records both
// gateway correlation fields.
func (t *Transaction) Approve(gatewayTransactionID, gatewayReference string) error {
	if err := t.transition(StatusApproved); err != nil {
		return err
	}
	t.GatewayTransactionID = &gatewayTransactionID
	t.GatewayReference = &gatewayReference
	return nil
}

// Decline moves a PENDING transaction to DECLINED with the issuer reason.
func (t *Transaction) Decline(reason string) error {
	if err := t.transition(StatusDeclined); err != nil {
		return err
	}
	t.ErrorMessage = &reason
	return nil
}

// MarkError moves a PENDING transaction to ERROR. Used when an
// orchestration step fails before a gateway verdict exists.
func (t *Transaction) MarkError(reason string) error {
	if err := t.transition(StatusError); err != nil {
		return err
	}
	t.ErrorMessage = &reason
	return nil
}

// SetDeliveryID attaches the delivery record. Side attribute, allowed in
// any status.
func (t *Transaction) SetDeliveryID(id uuid.UUID) {
	t.DeliveryID = &id
	t.UpdatedAt = time.Now()
}

// SetPaymentDetails attaches the payment method descriptor and masked
// card suffix after tokenization, independent of the final status. When
// gatewayTransactionID is non-nil it overwrites the stored correlation
// id; otherwise the existing one is preserved.
func (t *Transaction) SetPaymentDetails(method, cardLastFour string, gatewayTransactionID *string) {
	t.PaymentMethod = &method
	t.CardLastFour = &cardLastFour
	if gatewayTransactionID != nil {
		t.GatewayTransactionID = gatewayTransactionID
	}
	t.UpdatedAt = time.Now()
}

func (t *Transaction) transition(to Status) error {
	if t.Status != StatusPending {
		return fmt.Errorf("cannot transition from %s to %s: %w", t.Status, to, errors.ErrInvalidTransition)
	}
	t.Status = to
	t.UpdatedAt = time.Now()
	return nil
}
