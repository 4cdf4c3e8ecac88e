package checkout

import (
	"context"

	"github.com/cassiomorais/checkout/internal/domain/customer"
	"github.com/cassiomorais/checkout/internal/domain/delivery"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/google/uuid"
)

// CustomerHistoryUseCase serves a customer's past transactions and
// deliveries. Both reads verify the customer exists first so an unknown
// id surfaces as CUSTOMER_NOT_FOUND instead of an empty list.
type CustomerHistoryUseCase struct {
	customers    customer.Repository
	transactions transaction.Repository
	deliveries   delivery.Repository
}

func NewCustomerHistoryUseCase(
	customers customer.Repository,
	transactions transaction.Repository,
	deliveries delivery.Repository,
) *CustomerHistoryUseCase {
	return &CustomerHistoryUseCase{
		customers:    customers,
		transactions: transactions,
		deliveries:   deliveries,
	}
}

func (uc *CustomerHistoryUseCase) Transactions(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error) {
	if _, err := uc.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return uc.transactions.ListByCustomer(ctx, customerID)
}

func (uc *CustomerHistoryUseCase) Deliveries(ctx context.Context, customerID uuid.UUID) ([]*delivery.Delivery, error) {
	if _, err := uc.customers.GetByID(ctx, customerID); err != nil {
		return nil, err
	}
	return uc.deliveries.ListByCustomer(ctx, customerID)
}
