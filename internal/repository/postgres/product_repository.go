package postgres

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository implements product.Repository using PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

type scanner interface {
	Scan(dest ...any) error
}

const productColumns = `id, name, description, price, currency, stock, image_url, created_at, updated_at`

func scanProduct(s scanner, notFound func() error) (*product.Product, error) {
	p := &product.Product{}
	var priceStr string
	err := s.Scan(&p.ID, &p.Name, &p.Description, &priceStr, &p.Price.Currency, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound()
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}

	cents, err := numericStringToCents(priceStr)
	if err != nil {
		return nil, fmt.Errorf("parse price: %w", err)
	}
	p.Price.Cents = cents
	return p, nil
}

// List returns the full catalog ordered by name.
func (r *ProductRepository) List(ctx context.Context) ([]*product.Product, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*product.Product
	for rows.Next() {
		p, err := scanProduct(rows, func() error { return pgx.ErrNoRows })
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return scanProduct(r.db(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id),
		func() error { return domainErrors.NewProductNotFound(id) })
}

// GetByIDForUpdate retrieves a product holding a row-level lock. Must run
// inside a TxManager scope.
func (r *ProductRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return scanProduct(r.db(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id),
		func() error { return domainErrors.NewProductNotFound(id) })
}

// Save inserts a new product.
func (r *ProductRepository) Save(ctx context.Context, p *product.Product) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO products (id, name, description, price, currency, stock, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Description, centsToNumericString(p.Price.Cents), p.Price.Currency,
		p.Stock, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateStock overwrites the stock count of a product.
func (r *ProductRepository) UpdateStock(ctx context.Context, id uuid.UUID, newStock int) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2`,
		newStock, id,
	)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.NewProductNotFound(id)
	}
	return nil
}

var _ product.Repository = (*ProductRepository)(nil)
