package transaction_test

import (
	"testing"

	"github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/money"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cop(cents int64) money.Amount {
	return money.Amount{Cents: cents, Currency: "COP"}
}

func newPending(t *testing.T) *transaction.Transaction {
	t.Helper()
	txn, err := transaction.New(uuid.New(), uuid.New(), 1, cop(5_000_000), cop(50_000_000), cop(100_000_000))
	require.NoError(t, err)
	return txn
}

func TestNew_StartsPendingWithSummedTotal(t *testing.T) {
	txn := newPending(t)
	assert.Equal(t, transaction.StatusPending, txn.Status)
	assert.Equal(t, int64(155_000_000), txn.TotalAmount.Cents)
	assert.Equal(t, "COP", txn.TotalAmount.Currency)
	assert.False(t, txn.IsTerminal())
	assert.Nil(t, txn.GatewayTransactionID)
	assert.Nil(t, txn.ErrorMessage)
}

func TestNew_Invalid(t *testing.T) {
	_, err := transaction.New(uuid.Nil, uuid.New(), 1, cop(100), cop(100), cop(100))
	assert.Error(t, err)

	_, err = transaction.New(uuid.New(), uuid.New(), 0, cop(100), cop(100), cop(100))
	assert.Error(t, err)

	usd := money.Amount{Cents: 100, Currency: "USD"}
	_, err = transaction.New(uuid.New(), uuid.New(), 1, cop(100), usd, cop(100))
	assert.Error(t, err)
}

func TestApprove(t *testing.T) {
	txn := newPending(t)
	require.NoError(t, txn.Approve("gw-123", "ref-abc"))

	assert.Equal(t, transaction.StatusApproved, txn.Status)
	require.NotNil(t, txn.GatewayTransactionID)
	assert.Equal(t, "gw-123", *txn.GatewayTransactionID)
	require.NotNil(t, txn.GatewayReference)
	assert.Equal(t, "ref-abc", *txn.GatewayReference)
	assert.True(t, txn.IsTerminal())
}

func TestDecline(t *testing.T) {
	txn := newPending(t)
	require.NoError(t, txn.Decline("Payment declined by issuer"))

	assert.Equal(t, transaction.StatusDeclined, txn.Status)
	require.NotNil(t, txn.ErrorMessage)
	assert.Equal(t, "Payment declined by issuer", *txn.ErrorMessage)
}

func TestMarkError(t *testing.T) {
	txn := newPending(t)
	require.NoError(t, txn.MarkError("acceptance token unavailable"))

	assert.Equal(t, transaction.StatusError, txn.Status)
	require.NotNil(t, txn.ErrorMessage)
	assert.Equal(t, "acceptance token unavailable", *txn.ErrorMessage)
}

func TestTransitions_RejectedFromTerminalStates(t *testing.T) {
	tests := []struct {
		name    string
		settle  func(*transaction.Transaction) error
		attempt func(*transaction.Transaction) error
	}{
		{
			name:    "approve after approve",
			settle:  func(tx *transaction.Transaction) error { return tx.Approve("gw-1", "ref-1") },
			attempt: func(tx *transaction.Transaction) error { return tx.Approve("gw-2", "ref-2") },
		},
		{
			name:    "decline after approve",
			settle:  func(tx *transaction.Transaction) error { return tx.Approve("gw-1", "ref-1") },
			attempt: func(tx *transaction.Transaction) error { return tx.Decline("late decline") },
		},
		{
			name:    "approve after decline",
			settle:  func(tx *transaction.Transaction) error { return tx.Decline("no funds") },
			attempt: func(tx *transaction.Transaction) error { return tx.Approve("gw-1", "ref-1") },
		},
		{
			name:    "error after error",
			settle:  func(tx *transaction.Transaction) error { return tx.MarkError("boom") },
			attempt: func(tx *transaction.Transaction) error { return tx.MarkError("boom again") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := newPending(t)
			require.NoError(t, tt.settle(txn))
			settled := txn.Status

			err := tt.attempt(txn)
			assert.ErrorIs(t, err, errors.ErrInvalidTransition)
			assert.Equal(t, settled, txn.Status, "rejected transition must not mutate status")
		})
	}
}

func TestSetDeliveryID_AnyStatus(t *testing.T) {
	txn := newPending(t)
	require.NoError(t, txn.Approve("gw-1", "ref-1"))

	id := uuid.New()
	txn.SetDeliveryID(id)
	require.NotNil(t, txn.DeliveryID)
	assert.Equal(t, id, *txn.DeliveryID)
}

func TestSetPaymentDetails(t *testing.T) {
	txn := newPending(t)
	txn.SetPaymentDetails("CARD", "4242", nil)

	require.NotNil(t, txn.PaymentMethod)
	assert.Equal(t, "CARD", *txn.PaymentMethod)
	require.NotNil(t, txn.CardLastFour)
	assert.Equal(t, "4242", *txn.CardLastFour)
	assert.Nil(t, txn.GatewayTransactionID)
}

func TestSetPaymentDetails_GatewayIDHandling(t *testing.T) {
	txn := newPending(t)

	first := "gw-first"
	txn.SetPaymentDetails("CARD", "4242", &first)
	require.NotNil(t, txn.GatewayTransactionID)
	assert.Equal(t, "gw-first", *txn.GatewayTransactionID)

	// nil preserves the existing correlation id
	txn.SetPaymentDetails("CARD", "4242", nil)
	require.NotNil(t, txn.GatewayTransactionID)
	assert.Equal(t, "gw-first", *txn.GatewayTransactionID)

	// non-nil overwrites it
	second := "gw-second"
	txn.SetPaymentDetails("CARD", "4242", &second)
	assert.Equal(t, "gw-second", *txn.GatewayTransactionID)
}
