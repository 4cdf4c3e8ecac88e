package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository implements transaction.Repository using PostgreSQL.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

const transactionColumns = `id, customer_id, product_id, delivery_id, quantity,
	product_amount, base_fee, delivery_fee, total_amount, currency, status,
	gateway_transaction_id, gateway_reference, payment_method, card_last_four,
	error_message, created_at, updated_at`

func scanTransaction(s scanner, notFound func() error) (*transaction.Transaction, error) {
	t := &transaction.Transaction{}
	var (
		status      string
		productStr  string
		baseStr     string
		deliveryStr string
		totalStr    string
		currency    string
	)
	err := s.Scan(
		&t.ID, &t.CustomerID, &t.ProductID, &t.DeliveryID, &t.Quantity,
		&productStr, &baseStr, &deliveryStr, &totalStr, &currency, &status,
		&t.GatewayTransactionID, &t.GatewayReference, &t.PaymentMethod, &t.CardLastFour,
		&t.ErrorMessage, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	for _, field := range []struct {
		name string
		str  string
		dst  *int64
	}{
		{"product_amount", productStr, &t.ProductAmount.Cents},
		{"base_fee", baseStr, &t.BaseFee.Cents},
		{"delivery_fee", deliveryStr, &t.DeliveryFee.Cents},
		{"total_amount", totalStr, &t.TotalAmount.Cents},
	} {
		cents, err := numericStringToCents(field.str)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", field.name, err)
		}
		*field.dst = cents
	}
	t.ProductAmount.Currency = currency
	t.BaseFee.Currency = currency
	t.DeliveryFee.Currency = currency
	t.TotalAmount.Currency = currency
	t.Status = transaction.Status(status)
	return t, nil
}

// GetByID retrieves a transaction by its ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	return scanTransaction(r.db(ctx).QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id),
		func() error { return domainErrors.NewTransactionNotFound(id) })
}

// ListByCustomer returns all transactions for a customer, newest first.
func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListPendingOlderThan returns up to limit PENDING transactions whose last
// update is older than age. Rows carrying no gateway correlation id are
// skipped; the sweeper cannot settle them.
func (r *TransactionRepository) ListPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*transaction.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE status = $1 AND gateway_transaction_id IS NOT NULL AND updated_at < $2
		 ORDER BY updated_at ASC LIMIT $3`,
		string(transaction.StatusPending), time.Now().Add(-age), limit)
	if err != nil {
		return nil, fmt.Errorf("list pending transactions: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*transaction.Transaction, error) {
	var txns []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows, func() error { return pgx.ErrNoRows })
		if err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// Create inserts a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO transactions (id, customer_id, product_id, delivery_id, quantity,
			product_amount, base_fee, delivery_fee, total_amount, currency, status,
			gateway_transaction_id, gateway_reference, payment_method, card_last_four,
			error_message, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		t.ID, t.CustomerID, t.ProductID, t.DeliveryID, t.Quantity,
		centsToNumericString(t.ProductAmount.Cents), centsToNumericString(t.BaseFee.Cents),
		centsToNumericString(t.DeliveryFee.Cents), centsToNumericString(t.TotalAmount.Cents),
		t.TotalAmount.Currency, string(t.Status),
		t.GatewayTransactionID, t.GatewayReference, t.PaymentMethod, t.CardLastFour,
		t.ErrorMessage, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// Update overwrites an existing transaction by id.
func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE transactions SET delivery_id = $1, status = $2,
			gateway_transaction_id = $3, gateway_reference = $4,
			payment_method = $5, card_last_four = $6, error_message = $7, updated_at = $8
		 WHERE id = $9`,
		t.DeliveryID, string(t.Status),
		t.GatewayTransactionID, t.GatewayReference,
		t.PaymentMethod, t.CardLastFour, t.ErrorMessage, t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.NewTransactionNotFound(t.ID)
	}
	return nil
}

var _ transaction.Repository = (*TransactionRepository)(nil)
