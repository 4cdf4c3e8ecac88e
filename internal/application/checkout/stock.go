package checkout

import (
	"context"

	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// stockOps groups the inventory writes shared by the payment saga and
// the reconciliation read path.
type stockOps struct {
	products  product.Repository
	txManager TransactionManager
	logger    zerolog.Logger
}

// decrementBestEffort removes quantity units from stock under a row
// lock. It never fails the caller: by the time it runs the gateway has
// already captured the payment, so an approved transaction with a stale
// stock figure beats rejecting a successful payment. Skipped decrements
// are logged for manual reconciliation.
func (o *stockOps) decrementBestEffort(ctx context.Context, productID uuid.UUID, quantity int) {
	err := o.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		p, err := o.products.GetByIDForUpdate(txCtx, productID)
		if err != nil {
			return err
		}
		if err := p.DecrementStock(quantity); err != nil {
			return err
		}
		return o.products.UpdateStock(txCtx, p.ID, p.Stock)
	})
	if err != nil {
		o.logger.Warn().
			Err(err).
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("stock decrement skipped after approved payment")
	}
}
