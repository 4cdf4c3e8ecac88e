package checkout

import (
	"context"
	"fmt"

	"github.com/cassiomorais/checkout/internal/domain/customer"
	"github.com/cassiomorais/checkout/internal/domain/delivery"
	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/cassiomorais/checkout/internal/gateway"
	"github.com/cassiomorais/checkout/pkg/result"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// declinedFallbackMessage is recorded when the gateway declines without
// supplying a status message.
const declinedFallbackMessage = "Payment declined by issuer"

// CustomerInput identifies the buyer of a checkout attempt.
type CustomerInput struct {
	Email    string
	FullName string
	Phone    *string
}

// DeliveryInput is the shipping destination of a checkout attempt.
type DeliveryInput struct {
	Address    string
	City       string
	Region     string
	PostalCode *string
}

// ProcessPaymentRequest is the input for one checkout attempt.
type ProcessPaymentRequest struct {
	ProductID    uuid.UUID
	Quantity     int
	Customer     CustomerInput
	Delivery     DeliveryInput
	Card         gateway.Card
	Installments int
}

// ProcessPaymentResponse carries everything one attempt produced.
type ProcessPaymentResponse struct {
	Transaction *transaction.Transaction
	Customer    *customer.Customer
	Delivery    *delivery.Delivery
}

// ProcessPaymentUseCase orchestrates the checkout saga: validate stock,
// provision customer and delivery, persist a PENDING transaction, run the
// gateway's three-step protocol, and settle the final state. Steps run
// strictly in order; a failure short-circuits the rest, and once the
// PENDING transaction exists every later failure is recorded on it
// before propagating.
type ProcessPaymentUseCase struct {
	products     product.Repository
	customers    customer.Repository
	deliveries   delivery.Repository
	transactions transaction.Repository
	gateway      gateway.Gateway
	fees         Fees
	stock        *stockOps
	logger       zerolog.Logger
}

// NewProcessPaymentUseCase creates a ProcessPaymentUseCase.
func NewProcessPaymentUseCase(
	products product.Repository,
	customers customer.Repository,
	deliveries delivery.Repository,
	transactions transaction.Repository,
	gw gateway.Gateway,
	txManager TransactionManager,
	fees Fees,
	logger zerolog.Logger,
) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{
		products:     products,
		customers:    customers,
		deliveries:   deliveries,
		transactions: transactions,
		gateway:      gw,
		fees:         fees,
		stock:        &stockOps{products: products, txManager: txManager, logger: logger},
		logger:       logger.With().Str("use_case", "process_payment").Logger(),
	}
}

// checkoutState threads the artifacts of one attempt through the railway.
type checkoutState struct {
	req        ProcessPaymentRequest
	product    *product.Product
	customer   *customer.Customer
	delivery   *delivery.Delivery
	txn        *transaction.Transaction
	acceptance gateway.AcceptanceToken
	cardToken  gateway.CardToken
	payment    gateway.PaymentResult
}

// Execute runs one checkout attempt. The gateway's payment creation is
// called at most once.
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, req ProcessPaymentRequest) result.Result[ProcessPaymentResponse] {
	r := result.Ok(&checkoutState{req: req})
	r = result.FlatMap(r, uc.validateProduct(ctx))
	r = result.FlatMap(r, uc.ensureCustomer(ctx))
	r = result.FlatMap(r, uc.createDelivery(ctx))
	r = result.FlatMap(r, uc.createPendingTransaction(ctx))
	r = result.FlatMap(r, uc.fetchAcceptanceToken(ctx))
	r = result.FlatMap(r, uc.tokenizeCard(ctx))
	r = result.FlatMap(r, uc.createPayment(ctx))
	r = result.FlatMap(r, uc.resolveOutcome(ctx))
	r = result.FlatMap(r, uc.persistFinalState(ctx))

	return result.Map(r, func(s *checkoutState) ProcessPaymentResponse {
		return ProcessPaymentResponse{Transaction: s.txn, Customer: s.customer, Delivery: s.delivery}
	})
}

type step = func(*checkoutState) result.Result[*checkoutState]

// validateProduct fails with PRODUCT_NOT_FOUND or INSUFFICIENT_STOCK
// before any side effect happens; these attempts are safe to retry.
func (uc *ProcessPaymentUseCase) validateProduct(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		p, err := uc.products.GetByID(ctx, s.req.ProductID)
		if err != nil {
			return result.Fail[*checkoutState](err)
		}
		if !p.HasStock(s.req.Quantity) {
			return result.Fail[*checkoutState](domainErrors.NewInsufficientStock(p.ID, s.req.Quantity, p.Stock))
		}
		s.product = p
		return result.Ok(s)
	}
}

// ensureCustomer reuses an existing customer by email or creates one.
func (uc *ProcessPaymentUseCase) ensureCustomer(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		existing, err := uc.customers.GetByEmail(ctx, s.req.Customer.Email)
		if err == nil {
			s.customer = existing
			return result.Ok(s)
		}
		if !domainErrors.HasCode(err, domainErrors.CodeCustomerNotFound) {
			return result.Fail[*checkoutState](fmt.Errorf("looking up customer: %w", err))
		}

		created, err := customer.New(s.req.Customer.Email, s.req.Customer.FullName, s.req.Customer.Phone)
		if err != nil {
			return result.Fail[*checkoutState](err)
		}
		if err := uc.customers.Save(ctx, created); err != nil {
			return result.Fail[*checkoutState](fmt.Errorf("saving customer: %w", err))
		}
		s.customer = created
		return result.Ok(s)
	}
}

func (uc *ProcessPaymentUseCase) createDelivery(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		d, err := delivery.New(s.customer.ID, s.req.Delivery.Address, s.req.Delivery.City, s.req.Delivery.Region, s.req.Delivery.PostalCode)
		if err != nil {
			return result.Fail[*checkoutState](err)
		}
		if err := uc.deliveries.Save(ctx, d); err != nil {
			return result.Fail[*checkoutState](fmt.Errorf("saving delivery: %w", err))
		}
		s.delivery = d
		return result.Ok(s)
	}
}

// createPendingTransaction computes the amounts and persists the PENDING
// record. From here on failures are recorded on the transaction so the
// attempt never silently disappears mid-flight.
func (uc *ProcessPaymentUseCase) createPendingTransaction(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		productAmount := s.product.Price.Times(s.req.Quantity)
		txn, err := transaction.New(s.customer.ID, s.product.ID, s.req.Quantity, productAmount, uc.fees.BaseFee, uc.fees.DeliveryFee)
		if err != nil {
			return result.Fail[*checkoutState](err)
		}
		txn.SetDeliveryID(s.delivery.ID)

		if err := uc.transactions.Create(ctx, txn); err != nil {
			return result.Fail[*checkoutState](fmt.Errorf("saving transaction: %w", err))
		}
		s.txn = txn
		return result.Ok(s)
	}
}

func (uc *ProcessPaymentUseCase) fetchAcceptanceToken(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		r := uc.gateway.GetAcceptanceToken(ctx)
		if r.IsFailure() {
			return uc.failTransaction(ctx, s, r.Err())
		}
		s.acceptance = r.Value()
		return result.Ok(s)
	}
}

func (uc *ProcessPaymentUseCase) tokenizeCard(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		r := uc.gateway.TokenizeCard(ctx, s.req.Card)
		if r.IsFailure() {
			return uc.failTransaction(ctx, s, r.Err())
		}
		s.cardToken = r.Value()
		return result.Ok(s)
	}
}

// createPayment issues the single gateway payment call for this attempt.
// The payment method descriptor is attached to the transaction before
// the call so it survives whatever outcome follows.
func (uc *ProcessPaymentUseCase) createPayment(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		s.txn.SetPaymentDetails(uc.fees.MethodType, s.cardToken.LastFour, nil)

		r := uc.gateway.CreatePayment(ctx, gateway.PaymentRequest{
			AmountInCents:   s.txn.TotalAmount.Cents,
			Currency:        s.txn.TotalAmount.Currency,
			CustomerEmail:   s.customer.Email,
			Reference:       uuid.NewString(),
			AcceptanceToken: s.acceptance.Token,
			Method: gateway.PaymentMethod{
				Type:         uc.fees.MethodType,
				Token:        s.cardToken.Token,
				Installments: uc.fees.Installments(s.req.Installments),
			},
			Customer: &gateway.CustomerData{
				FullName: s.customer.FullName,
				Phone:    stringOrEmpty(s.customer.Phone),
			},
		})
		if r.IsFailure() {
			return uc.failTransaction(ctx, s, r.Err())
		}
		s.payment = r.Value()
		return result.Ok(s)
	}
}

// resolveOutcome maps the gateway verdict onto the transaction. Anything
// other than APPROVED or DECLINED leaves the record PENDING for the
// reconciliation read path to settle.
func (uc *ProcessPaymentUseCase) resolveOutcome(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		switch s.payment.Status {
		case gateway.StatusApproved:
			if err := s.txn.Approve(s.payment.ID, s.payment.Reference); err != nil {
				return result.Fail[*checkoutState](err)
			}
			uc.stock.decrementBestEffort(ctx, s.product.ID, s.req.Quantity)

		case gateway.StatusDeclined:
			msg := s.payment.StatusMessage
			if msg == "" {
				msg = declinedFallbackMessage
			}
			if err := s.txn.Decline(msg); err != nil {
				return result.Fail[*checkoutState](err)
			}

		default:
			// Still unsettled at the gateway. Keep the correlation id so
			// the read path can query it later.
			s.txn.SetPaymentDetails(uc.fees.MethodType, s.cardToken.LastFour, &s.payment.ID)
		}
		return result.Ok(s)
	}
}

func (uc *ProcessPaymentUseCase) persistFinalState(ctx context.Context) step {
	return func(s *checkoutState) result.Result[*checkoutState] {
		if err := uc.transactions.Update(ctx, s.txn); err != nil {
			return result.Fail[*checkoutState](fmt.Errorf("saving transaction outcome: %w", err))
		}
		uc.logger.Info().
			Str("transaction_id", s.txn.ID.String()).
			Str("status", string(s.txn.Status)).
			Msg("checkout settled")
		return result.Ok(s)
	}
}

// failTransaction records a gateway-phase failure on the PENDING
// transaction before propagating the original error.
func (uc *ProcessPaymentUseCase) failTransaction(ctx context.Context, s *checkoutState, cause error) result.Result[*checkoutState] {
	if err := s.txn.MarkError(cause.Error()); err != nil {
		uc.logger.Error().Err(err).Str("transaction_id", s.txn.ID.String()).Msg("could not mark transaction errored")
		return result.Fail[*checkoutState](cause)
	}
	if err := uc.transactions.Update(ctx, s.txn); err != nil {
		uc.logger.Error().Err(err).Str("transaction_id", s.txn.ID.String()).Msg("could not persist errored transaction")
	}
	return result.Fail[*checkoutState](cause)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
