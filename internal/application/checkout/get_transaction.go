package checkout

import (
	"context"

	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/cassiomorais/checkout/internal/gateway"
	"github.com/cassiomorais/checkout/pkg/result"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GetTransactionUseCase reads a transaction, lazily reconciling it
// against the gateway when it is still PENDING and carries a gateway
// correlation id. Settled transactions are returned as-is and never
// trigger a gateway call, so repeated reads are idempotent.
type GetTransactionUseCase struct {
	transactions transaction.Repository
	gateway      gateway.Gateway
	stock        *stockOps
	logger       zerolog.Logger
}

// NewGetTransactionUseCase creates a GetTransactionUseCase.
func NewGetTransactionUseCase(
	transactions transaction.Repository,
	products product.Repository,
	gw gateway.Gateway,
	txManager TransactionManager,
	logger zerolog.Logger,
) *GetTransactionUseCase {
	return &GetTransactionUseCase{
		transactions: transactions,
		gateway:      gw,
		stock:        &stockOps{products: products, txManager: txManager, logger: logger},
		logger:       logger.With().Str("use_case", "get_transaction").Logger(),
	}
}

// Execute returns the transaction, refreshed from the gateway when a
// remote verdict settled since the last write. A gateway failure returns
// the local record unchanged; stale-but-available beats failing the read.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, id uuid.UUID) result.Result[*transaction.Transaction] {
	txn, err := uc.transactions.GetByID(ctx, id)
	if err != nil {
		return result.Fail[*transaction.Transaction](err)
	}

	if txn.IsTerminal() || txn.GatewayTransactionID == nil {
		return result.Ok(txn)
	}

	r := uc.gateway.GetTransaction(ctx, *txn.GatewayTransactionID)
	if r.IsFailure() {
		uc.logger.Warn().Err(r.Err()).
			Str("transaction_id", txn.ID.String()).
			Msg("gateway status query failed, returning local record")
		return result.Ok(txn)
	}
	remote := r.Value()

	switch remote.Status {
	case gateway.StatusApproved:
		if err := txn.Approve(remote.ID, remote.Reference); err != nil {
			return result.Fail[*transaction.Transaction](err)
		}
		uc.stock.decrementBestEffort(ctx, txn.ProductID, txn.Quantity)

	case gateway.StatusDeclined:
		msg := remote.StatusMessage
		if msg == "" {
			msg = declinedFallbackMessage
		}
		if err := txn.Decline(msg); err != nil {
			return result.Fail[*transaction.Transaction](err)
		}

	default:
		// Still unsettled at the gateway, nothing to persist.
		return result.Ok(txn)
	}

	if err := uc.transactions.Update(ctx, txn); err != nil {
		return result.Fail[*transaction.Transaction](err)
	}
	uc.logger.Info().
		Str("transaction_id", txn.ID.String()).
		Str("status", string(txn.Status)).
		Msg("transaction reconciled against gateway")
	return result.Ok(txn)
}
