package checkout

import (
	"context"

	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/google/uuid"
)

// ListProductsUseCase serves the catalog read endpoints.
type ListProductsUseCase struct {
	products product.Repository
}

func NewListProductsUseCase(products product.Repository) *ListProductsUseCase {
	return &ListProductsUseCase{products: products}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context) ([]*product.Product, error) {
	return uc.products.List(ctx)
}

func (uc *ListProductsUseCase) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	return uc.products.GetByID(ctx, id)
}
