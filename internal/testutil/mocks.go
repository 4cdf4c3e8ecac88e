// Package testutil provides in-memory mocks and fixtures shared by unit
// tests across packages.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cassiomorais/checkout/internal/domain/customer"
	"github.com/cassiomorais/checkout/internal/domain/delivery"
	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/cassiomorais/checkout/internal/gateway"
	"github.com/cassiomorais/checkout/pkg/result"
	"github.com/google/uuid"
)

// --- Product Repository Mock ---

// MockProductRepository is a map-backed implementation of product.Repository.
type MockProductRepository struct {
	mu       sync.Mutex
	products map[uuid.UUID]*product.Product

	ListFunc           func(ctx context.Context) ([]*product.Product, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	GetForUpdateFunc   func(ctx context.Context, id uuid.UUID) (*product.Product, error)
	SaveFunc           func(ctx context.Context, p *product.Product) error
	UpdateStockFunc    func(ctx context.Context, id uuid.UUID, newStock int) error
	UpdateStockCalls   int
	GetForUpdateCalls  int
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[uuid.UUID]*product.Product)}
}

func (m *MockProductRepository) List(ctx context.Context) ([]*product.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*product.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domainErrors.NewProductNotFound(id)
	}
	return p, nil
}

func (m *MockProductRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	m.mu.Lock()
	m.GetForUpdateCalls++
	m.mu.Unlock()
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockProductRepository) Save(ctx context.Context, p *product.Product) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
	return nil
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, id uuid.UUID, newStock int) error {
	m.mu.Lock()
	m.UpdateStockCalls++
	m.mu.Unlock()
	if m.UpdateStockFunc != nil {
		return m.UpdateStockFunc(ctx, id, newStock)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return domainErrors.NewProductNotFound(id)
	}
	p.Stock = newStock
	return nil
}

// --- Customer Repository Mock ---

// MockCustomerRepository is a map-backed implementation of customer.Repository.
type MockCustomerRepository struct {
	mu        sync.Mutex
	customers map[uuid.UUID]*customer.Customer
	byEmail   map[string]*customer.Customer

	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*customer.Customer, error)
	GetByEmailFunc func(ctx context.Context, email string) (*customer.Customer, error)
	SaveFunc       func(ctx context.Context, c *customer.Customer) error
	SaveCalls      int
}

func NewMockCustomerRepository() *MockCustomerRepository {
	return &MockCustomerRepository{
		customers: make(map[uuid.UUID]*customer.Customer),
		byEmail:   make(map[string]*customer.Customer),
	}
}

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, domainErrors.NewCustomerNotFound(id.String())
	}
	return c, nil
}

func (m *MockCustomerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domainErrors.NewCustomerNotFound(email)
	}
	return c, nil
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	m.mu.Lock()
	m.SaveCalls++
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.ID] = c
	m.byEmail[c.Email] = c
	return nil
}

// --- Delivery Repository Mock ---

// MockDeliveryRepository is a map-backed implementation of delivery.Repository.
type MockDeliveryRepository struct {
	mu         sync.Mutex
	deliveries map[uuid.UUID]*delivery.Delivery

	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*delivery.Delivery, error)
	ListByCustomerFunc func(ctx context.Context, customerID uuid.UUID) ([]*delivery.Delivery, error)
	SaveFunc           func(ctx context.Context, d *delivery.Delivery) error
}

func NewMockDeliveryRepository() *MockDeliveryRepository {
	return &MockDeliveryRepository{deliveries: make(map[uuid.UUID]*delivery.Delivery)}
}

func (m *MockDeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*delivery.Delivery, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deliveries[id]
	if !ok {
		return nil, nil
	}
	return d, nil
}

func (m *MockDeliveryRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*delivery.Delivery, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*delivery.Delivery
	for _, d := range m.deliveries {
		if d.CustomerID == customerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *MockDeliveryRepository) Save(ctx context.Context, d *delivery.Delivery) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, d)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries[d.ID] = d
	return nil
}

// --- Transaction Repository Mock ---

// MockTransactionRepository is a map-backed implementation of
// transaction.Repository.
type MockTransactionRepository struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*transaction.Transaction

	GetByIDFunc              func(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	ListByCustomerFunc       func(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error)
	ListPendingOlderThanFunc func(ctx context.Context, age time.Duration, limit int) ([]*transaction.Transaction, error)
	CreateFunc               func(ctx context.Context, t *transaction.Transaction) error
	UpdateFunc               func(ctx context.Context, t *transaction.Transaction) error
	CreateCalls              int
	UpdateCalls              int
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{transactions: make(map[uuid.UUID]*transaction.Transaction)}
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return nil, domainErrors.NewTransactionNotFound(id)
	}
	return t, nil
}

func (m *MockTransactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*transaction.Transaction, error) {
	if m.ListByCustomerFunc != nil {
		return m.ListByCustomerFunc(ctx, customerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*transaction.Transaction
	for _, t := range m.transactions {
		if t.CustomerID == customerID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) ListPendingOlderThan(ctx context.Context, age time.Duration, limit int) ([]*transaction.Transaction, error) {
	if m.ListPendingOlderThanFunc != nil {
		return m.ListPendingOlderThanFunc(ctx, age, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := time.Now().Add(-age)
	var out []*transaction.Transaction
	for _, t := range m.transactions {
		if t.Status == transaction.StatusPending && t.UpdatedAt.Before(cutoff) {
			out = append(out, t)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockTransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.ID] = t
	return nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	m.mu.Lock()
	m.UpdateCalls++
	m.mu.Unlock()
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.ID] = t
	return nil
}

// --- Gateway Mock ---

// MockGateway implements gateway.Gateway with overridable behavior and
// per-method call counters.
type MockGateway struct {
	mu sync.Mutex

	GetAcceptanceTokenFunc func(ctx context.Context) result.Result[gateway.AcceptanceToken]
	TokenizeCardFunc       func(ctx context.Context, card gateway.Card) result.Result[gateway.CardToken]
	CreatePaymentFunc      func(ctx context.Context, req gateway.PaymentRequest) result.Result[gateway.PaymentResult]
	GetTransactionFunc     func(ctx context.Context, gatewayID string) result.Result[gateway.PaymentResult]

	AcceptanceCalls     int
	TokenizeCalls       int
	CreatePaymentCalls  int
	GetTransactionCalls int

	// LastPaymentRequest records the request of the most recent
	// CreatePayment call.
	LastPaymentRequest gateway.PaymentRequest
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) GetAcceptanceToken(ctx context.Context) result.Result[gateway.AcceptanceToken] {
	m.mu.Lock()
	m.AcceptanceCalls++
	m.mu.Unlock()
	if m.GetAcceptanceTokenFunc != nil {
		return m.GetAcceptanceTokenFunc(ctx)
	}
	return result.Ok(gateway.AcceptanceToken{Token: "acc_test_token", Type: "END_USER_POLICY"})
}

func (m *MockGateway) TokenizeCard(ctx context.Context, card gateway.Card) result.Result[gateway.CardToken] {
	m.mu.Lock()
	m.TokenizeCalls++
	m.mu.Unlock()
	if m.TokenizeCardFunc != nil {
		return m.TokenizeCardFunc(ctx, card)
	}
	last4 := card.Number
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	return result.Ok(gateway.CardToken{Token: "tok_test_" + last4, Brand: "VISA", LastFour: last4})
}

func (m *MockGateway) CreatePayment(ctx context.Context, req gateway.PaymentRequest) result.Result[gateway.PaymentResult] {
	m.mu.Lock()
	m.CreatePaymentCalls++
	m.LastPaymentRequest = req
	m.mu.Unlock()
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, req)
	}
	return result.Ok(gateway.PaymentResult{
		ID:            "gw_" + uuid.NewString(),
		Reference:     req.Reference,
		Status:        gateway.StatusApproved,
		MethodType:    req.Method.Type,
		AmountInCents: req.AmountInCents,
		Currency:      req.Currency,
	})
}

func (m *MockGateway) GetTransaction(ctx context.Context, gatewayID string) result.Result[gateway.PaymentResult] {
	m.mu.Lock()
	m.GetTransactionCalls++
	m.mu.Unlock()
	if m.GetTransactionFunc != nil {
		return m.GetTransactionFunc(ctx, gatewayID)
	}
	return result.Ok(gateway.PaymentResult{ID: gatewayID, Status: gateway.StatusApproved})
}

// --- Transaction Manager Mock ---

// MockTransactionManager runs the callback directly; unit tests have no
// database transaction to scope.
type MockTransactionManager struct {
	WithTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
	Calls               int
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.WithTransactionFunc != nil {
		return m.WithTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}
