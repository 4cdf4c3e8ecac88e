package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cassiomorais/checkout/internal/domain/customer"
	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerRepository implements customer.Repository using PostgreSQL.
type CustomerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

func scanCustomer(s scanner, notFound func() error) (*customer.Customer, error) {
	c := &customer.Customer{}
	err := s.Scan(&c.ID, &c.Email, &c.FullName, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	return c, nil
}

// GetByID retrieves a customer by its ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	return scanCustomer(r.db(ctx).QueryRow(ctx,
		`SELECT id, email, full_name, phone, created_at FROM customers WHERE id = $1`, id),
		func() error { return domainErrors.NewCustomerNotFound(id.String()) })
}

// GetByEmail retrieves a customer by normalized email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return scanCustomer(r.db(ctx).QueryRow(ctx,
		`SELECT id, email, full_name, phone, created_at FROM customers WHERE email = LOWER(TRIM($1))`, email),
		func() error { return domainErrors.NewCustomerNotFound(email) })
}

// Save inserts a new customer.
func (r *CustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO customers (id, email, full_name, phone, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Email, c.FullName, c.Phone, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

var _ customer.Repository = (*CustomerRepository)(nil)
