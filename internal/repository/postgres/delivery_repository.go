package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cassiomorais/checkout/internal/domain/delivery"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DeliveryRepository implements delivery.Repository using PostgreSQL.
type DeliveryRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryRepository creates a new DeliveryRepository.
func NewDeliveryRepository(pool *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

func (r *DeliveryRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

const deliveryColumns = `id, customer_id, address, city, region, postal_code, created_at`

func scanDelivery(s scanner) (*delivery.Delivery, error) {
	d := &delivery.Delivery{}
	err := s.Scan(&d.ID, &d.CustomerID, &d.Address, &d.City, &d.Region, &d.PostalCode, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetByID retrieves a delivery by its ID. Returns nil when absent;
// deliveries have no coded not-found failure of their own.
func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*delivery.Delivery, error) {
	d, err := scanDelivery(r.db(ctx).QueryRow(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan delivery: %w", err)
	}
	return d, nil
}

// ListByCustomer returns all deliveries for a customer, newest first.
func (r *DeliveryRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*delivery.Delivery, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+deliveryColumns+` FROM deliveries WHERE customer_id = $1 ORDER BY created_at DESC`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*delivery.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

// Save inserts a new delivery.
func (r *DeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO deliveries (id, customer_id, address, city, region, postal_code, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		d.ID, d.CustomerID, d.Address, d.City, d.Region, d.PostalCode, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

var _ delivery.Repository = (*DeliveryRepository)(nil)
