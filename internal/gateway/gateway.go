// Package gateway defines the outbound port for the external payment
// gateway and its adapters. The gateway is the source of truth for
// whether money actually moved; every method resolves to a Result and
// never panics or hangs past the port boundary.
package gateway

import (
	"context"

	"github.com/cassiomorais/checkout/pkg/result"
)

// Transaction statuses reported by the gateway.
const (
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"
	StatusPending  = "PENDING"
	StatusVoided   = "VOIDED"
	StatusError    = "ERROR"
)

// AcceptanceToken is the precondition artifact the gateway requires
// before any payment can be created.
type AcceptanceToken struct {
	Token     string
	Permalink string
	Type      string
}

// Card carries raw card data on its way to tokenization. It is never
// persisted and never logged.
type Card struct {
	Number     string
	CVC        string
	ExpMonth   string
	ExpYear    string
	HolderName string
}

// CardToken is the opaque token the gateway exchanges for raw card data.
type CardToken struct {
	Token    string
	Brand    string
	LastFour string
	ExpMonth string
	ExpYear  string
}

// PaymentMethod describes how a payment is funded.
type PaymentMethod struct {
	Type         string
	Token        string
	Installments int
}

// CustomerData is optional buyer metadata attached to a payment.
type CustomerData struct {
	FullName string
	Phone    string
}

// PaymentRequest is the input for creating a gateway payment. Amounts
// are always expressed in integer minor units.
type PaymentRequest struct {
	AmountInCents   int64
	Currency        string
	CustomerEmail   string
	Reference       string
	AcceptanceToken string
	Method          PaymentMethod
	Customer        *CustomerData
}

// PaymentResult is the gateway's view of a transaction, returned both by
// CreatePayment and by the status query.
type PaymentResult struct {
	ID            string
	Reference     string
	Status        string
	StatusMessage string
	MethodType    string
	AmountInCents int64
	Currency      string
}

// Gateway is the outbound payment-processing port.
type Gateway interface {
	// GetAcceptanceToken fetches the merchant acceptance token.
	GetAcceptanceToken(ctx context.Context) result.Result[AcceptanceToken]

	// TokenizeCard exchanges raw card data for an opaque token. A card
	// the gateway refuses yields an INVALID_CARD domain error.
	TokenizeCard(ctx context.Context, card Card) result.Result[CardToken]

	// CreatePayment creates a payment. Called at most once per checkout
	// attempt; adapters must not retry it.
	CreatePayment(ctx context.Context, req PaymentRequest) result.Result[PaymentResult]

	// GetTransaction queries the current gateway state of a payment.
	GetTransaction(ctx context.Context, gatewayID string) result.Result[PaymentResult]
}
