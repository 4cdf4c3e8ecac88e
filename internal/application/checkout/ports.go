package checkout

import (
	"context"

	"github.com/cassiomorais/checkout/internal/domain/money"
)

// TransactionManager defines the interface for database transaction
// scoping. This is an application-layer port, not a domain concern.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Fees holds the injected pricing constants added on top of the product
// amount. They come from configuration and never change mid-flight.
type Fees struct {
	BaseFee             money.Amount
	DeliveryFee         money.Amount
	MethodType          string
	DefaultInstallments int
}

// Installments returns requested when positive, otherwise the configured
// default (falling back to a single installment).
func (f Fees) Installments(requested int) int {
	if requested > 0 {
		return requested
	}
	if f.DefaultInstallments > 0 {
		return f.DefaultInstallments
	}
	return 1
}
