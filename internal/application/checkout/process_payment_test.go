package checkout_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cassiomorais/checkout/internal/application/checkout"
	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/money"
	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/cassiomorais/checkout/internal/gateway"
	"github.com/cassiomorais/checkout/internal/testutil"
	"github.com/cassiomorais/checkout/pkg/result"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var testFees = checkout.Fees{
	BaseFee:             money.Amount{Cents: 500_000, Currency: "COP"},
	DeliveryFee:         money.Amount{Cents: 4_500_000, Currency: "COP"},
	MethodType:          "CARD",
	DefaultInstallments: 1,
}

type sagaDeps struct {
	products     *testutil.MockProductRepository
	customers    *testutil.MockCustomerRepository
	deliveries   *testutil.MockDeliveryRepository
	transactions *testutil.MockTransactionRepository
	gw           *testutil.MockGateway
	txManager    *testutil.MockTransactionManager
}

func newSagaDeps() sagaDeps {
	return sagaDeps{
		products:     testutil.NewMockProductRepository(),
		customers:    testutil.NewMockCustomerRepository(),
		deliveries:   testutil.NewMockDeliveryRepository(),
		transactions: testutil.NewMockTransactionRepository(),
		gw:           testutil.NewMockGateway(),
		txManager:    testutil.NewMockTransactionManager(),
	}
}

func (d sagaDeps) useCase() *checkout.ProcessPaymentUseCase {
	return checkout.NewProcessPaymentUseCase(
		d.products, d.customers, d.deliveries, d.transactions,
		d.gw, d.txManager, testFees, zerolog.Nop(),
	)
}

func validRequest(productID uuid.UUID) checkout.ProcessPaymentRequest {
	return checkout.ProcessPaymentRequest{
		ProductID: productID,
		Quantity:  3,
		Customer: checkout.CustomerInput{
			Email:    "buyer@example.com",
			FullName: "Test Buyer",
		},
		Delivery: checkout.DeliveryInput{
			Address: "Calle 1 # 2-3",
			City:    "Bogota",
			Region:  "Cundinamarca",
		},
		Card: gateway.Card{
			Number:     "4111111111114242",
			CVC:        "123",
			ExpMonth:   "12",
			ExpYear:    "29",
			HolderName: "TEST BUYER",
		},
	}
}

func TestProcessPayment_ApprovedHappyPath(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	// 50000.00 per unit, quantity 3.
	p := testutil.NewTestProduct("gamer-keyboard", 5_000_000, 10)
	deps.products.Save(ctx, p)

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	if r.IsFailure() {
		t.Fatalf("unexpected failure: %v", r.Err())
	}
	resp := r.Value()

	if resp.Transaction.Status != transaction.StatusApproved {
		t.Errorf("expected APPROVED, got %s", resp.Transaction.Status)
	}
	if got := resp.Transaction.TotalAmount.Cents; got != 20_000_000 {
		t.Errorf("expected total 20000000 cents, got %d", got)
	}
	// The gateway receives the total in minor units, unscaled.
	if got := deps.gw.LastPaymentRequest.AmountInCents; got != 20_000_000 {
		t.Errorf("expected gateway amount 20000000, got %d", got)
	}
	if deps.gw.CreatePaymentCalls != 1 {
		t.Errorf("expected exactly one payment creation, got %d", deps.gw.CreatePaymentCalls)
	}
	if resp.Transaction.GatewayTransactionID == nil || resp.Transaction.GatewayReference == nil {
		t.Error("expected gateway correlation fields to be set")
	}
	if resp.Transaction.CardLastFour == nil || *resp.Transaction.CardLastFour != "4242" {
		t.Errorf("expected card suffix 4242, got %v", resp.Transaction.CardLastFour)
	}

	updated, _ := deps.products.GetByID(ctx, p.ID)
	if updated.Stock != 7 {
		t.Errorf("expected stock 7 after decrement, got %d", updated.Stock)
	}
	if deps.txManager.Calls != 1 {
		t.Errorf("expected stock decrement inside one db transaction, got %d", deps.txManager.Calls)
	}
	if resp.Delivery == nil || resp.Delivery.CustomerID != resp.Customer.ID {
		t.Error("expected delivery bound to the created customer")
	}
}

func TestProcessPayment_TotalIncludesBothFees(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	// 500000.00 per unit, quantity 3, plus the two fees.
	p := testutil.NewTestProduct("laptop", 50_000_000, 10)
	deps.products.Save(ctx, p)

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	if r.IsFailure() {
		t.Fatalf("unexpected failure: %v", r.Err())
	}

	if got := r.Value().Transaction.TotalAmount.Cents; got != 155_000_000 {
		t.Errorf("expected total 155000000 cents, got %d", got)
	}
	if got := deps.gw.LastPaymentRequest.AmountInCents; got != 155_000_000 {
		t.Errorf("expected gateway amount 155000000, got %d", got)
	}
}

func TestProcessPayment_InsufficientStock_NoSideEffects(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	p := testutil.NewTestProduct("scarce", 5_000_000, 2)
	deps.products.Save(ctx, p)

	req := validRequest(p.ID)
	req.Quantity = 3

	r := deps.useCase().Execute(ctx, req)
	if !r.IsFailure() {
		t.Fatal("expected failure, got success")
	}
	if !domainErrors.HasCode(r.Err(), domainErrors.CodeInsufficientStock) {
		t.Errorf("expected INSUFFICIENT_STOCK, got %v", r.Err())
	}

	// Nothing was written and the gateway was never contacted.
	if deps.customers.SaveCalls != 0 {
		t.Error("expected no customer writes")
	}
	if deps.transactions.CreateCalls != 0 {
		t.Error("expected no transaction writes")
	}
	if deps.gw.AcceptanceCalls+deps.gw.TokenizeCalls+deps.gw.CreatePaymentCalls != 0 {
		t.Error("expected no gateway calls")
	}
}

func TestProcessPayment_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	r := deps.useCase().Execute(ctx, validRequest(uuid.New()))
	if !r.IsFailure() {
		t.Fatal("expected failure, got success")
	}
	if !domainErrors.HasCode(r.Err(), domainErrors.CodeProductNotFound) {
		t.Errorf("expected PRODUCT_NOT_FOUND, got %v", r.Err())
	}
}

func TestProcessPayment_ReusesCustomerByEmail(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	p := testutil.NewTestProduct("keyboard", 5_000_000, 10)
	deps.products.Save(ctx, p)

	existing := testutil.NewTestCustomer("buyer@example.com")
	deps.customers.Save(ctx, existing)
	deps.customers.SaveCalls = 0

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	if r.IsFailure() {
		t.Fatalf("unexpected failure: %v", r.Err())
	}
	if r.Value().Customer.ID != existing.ID {
		t.Error("expected the existing customer to be reused")
	}
	if deps.customers.SaveCalls != 0 {
		t.Error("expected no duplicate customer insert")
	}
}

func TestProcessPayment_DeclinedUsesFallbackMessage(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	p := testutil.NewTestProduct("keyboard", 5_000_000, 10)
	deps.products.Save(ctx, p)

	deps.gw.CreatePaymentFunc = func(ctx context.Context, req gateway.PaymentRequest) result.Result[gateway.PaymentResult] {
		return result.Ok(gateway.PaymentResult{
			ID:        "gw_declined",
			Reference: req.Reference,
			Status:    gateway.StatusDeclined,
		})
	}

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	if r.IsFailure() {
		t.Fatalf("a decline settles the saga, got failure: %v", r.Err())
	}
	txn := r.Value().Transaction

	if txn.Status != transaction.StatusDeclined {
		t.Fatalf("expected DECLINED, got %s", txn.Status)
	}
	if txn.ErrorMessage == nil || *txn.ErrorMessage != "Payment declined by issuer" {
		t.Errorf("expected fallback decline message, got %v", txn.ErrorMessage)
	}

	// Declines never touch stock.
	updated, _ := deps.products.GetByID(ctx, p.ID)
	if updated.Stock != 10 {
		t.Errorf("expected stock untouched, got %d", updated.Stock)
	}
}

func TestProcessPayment_DeclinedKeepsGatewayMessage(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	p := testutil.NewTestProduct("keyboard", 5_000_000, 10)
	deps.products.Save(ctx, p)

	deps.gw.CreatePaymentFunc = func(ctx context.Context, req gateway.PaymentRequest) result.Result[gateway.PaymentResult] {
		return result.Ok(gateway.PaymentResult{
			ID:            "gw_declined",
			Status:        gateway.StatusDeclined,
			StatusMessage: "Insufficient funds",
		})
	}

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	txn := r.Value().Transaction
	if txn.ErrorMessage == nil || *txn.ErrorMessage != "Insufficient funds" {
		t.Errorf("expected gateway decline message, got %v", txn.ErrorMessage)
	}
}

func TestProcessPayment_AcceptanceTokenFailure_MarksError(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	p := testutil.NewTestProduct("keyboard", 5_000_000, 10)
	deps.products.Save(ctx, p)

	gwErr := errors.New("gateway unreachable")
	deps.gw.GetAcceptanceTokenFunc = func(ctx context.Context) result.Result[gateway.AcceptanceToken] {
		return result.Fail[gateway.AcceptanceToken](gwErr)
	}

	var stored *transaction.Transaction
	deps.transactions.CreateFunc = func(ctx context.Context, txn *transaction.Transaction) error {
		stored = txn
		return nil
	}

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	if !r.IsFailure() {
		t.Fatal("expected failure, got success")
	}
	// The original failure propagates, not a wrapper.
	if !errors.Is(r.Err(), gwErr) {
		t.Errorf("expected original gateway error, got %v", r.Err())
	}

	// Later gateway steps never run.
	if deps.gw.TokenizeCalls != 0 || deps.gw.CreatePaymentCalls != 0 {
		t.Error("expected no tokenization or payment after acceptance failure")
	}

	// A durable ERROR transaction remains.
	if deps.transactions.CreateCalls != 1 {
		t.Fatalf("expected one transaction insert, got %d", deps.transactions.CreateCalls)
	}
	if stored == nil {
		t.Fatal("expected a stored transaction")
	}
	if deps.transactions.UpdateCalls != 1 {
		t.Errorf("expected the errored state to be persisted, got %d updates", deps.transactions.UpdateCalls)
	}
	if stored.Status != transaction.StatusError {
		t.Errorf("expected ERROR status, got %s", stored.Status)
	}
	if stored.ErrorMessage == nil || *stored.ErrorMessage != "gateway unreachable" {
		t.Errorf("expected failure message recorded, got %v", stored.ErrorMessage)
	}
}

func TestProcessPayment_TokenizeFailure_MarksError(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	p := testutil.NewTestProduct("keyboard", 5_000_000, 10)
	deps.products.Save(ctx, p)

	deps.gw.TokenizeCardFunc = func(ctx context.Context, card gateway.Card) result.Result[gateway.CardToken] {
		return result.Fail[gateway.CardToken](domainErrors.NewInvalidCard("card number is invalid"))
	}

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	if !r.IsFailure() {
		t.Fatal("expected failure, got success")
	}
	if !domainErrors.HasCode(r.Err(), domainErrors.CodeInvalidCard) {
		t.Errorf("expected INVALID_CARD, got %v", r.Err())
	}
	if deps.gw.CreatePaymentCalls != 0 {
		t.Error("expected no payment creation after tokenize failure")
	}
}

func TestProcessPayment_GatewayStillPending_KeepsPendingWithCorrelationID(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	p := testutil.NewTestProduct("keyboard", 5_000_000, 10)
	deps.products.Save(ctx, p)

	deps.gw.CreatePaymentFunc = func(ctx context.Context, req gateway.PaymentRequest) result.Result[gateway.PaymentResult] {
		return result.Ok(gateway.PaymentResult{
			ID:        "gw_pending_123",
			Reference: req.Reference,
			Status:    gateway.StatusPending,
		})
	}

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	if r.IsFailure() {
		t.Fatalf("unexpected failure: %v", r.Err())
	}
	txn := r.Value().Transaction

	if txn.Status != transaction.StatusPending {
		t.Errorf("expected PENDING, got %s", txn.Status)
	}
	if txn.GatewayTransactionID == nil || *txn.GatewayTransactionID != "gw_pending_123" {
		t.Errorf("expected correlation id recorded, got %v", txn.GatewayTransactionID)
	}

	updated, _ := deps.products.GetByID(ctx, p.ID)
	if updated.Stock != 10 {
		t.Errorf("expected no stock change while pending, got %d", updated.Stock)
	}
}

func TestProcessPayment_ApprovedButProductGone_StillApproves(t *testing.T) {
	ctx := context.Background()
	deps := newSagaDeps()

	p := testutil.NewTestProduct("keyboard", 5_000_000, 10)
	deps.products.Save(ctx, p)

	// The product disappears between the stock check and the decrement.
	deps.products.GetForUpdateFunc = func(ctx context.Context, id uuid.UUID) (*product.Product, error) {
		return nil, domainErrors.NewProductNotFound(id)
	}

	r := deps.useCase().Execute(ctx, validRequest(p.ID))
	if r.IsFailure() {
		t.Fatalf("payment already captured, saga must not fail: %v", r.Err())
	}
	if r.Value().Transaction.Status != transaction.StatusApproved {
		t.Errorf("expected APPROVED, got %s", r.Value().Transaction.Status)
	}
	if deps.products.UpdateStockCalls != 0 {
		t.Error("expected the stock write to be skipped")
	}
}
