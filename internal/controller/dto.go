package controller

import (
	"time"

	"github.com/cassiomorais/checkout/internal/application/checkout"
	"github.com/cassiomorais/checkout/internal/domain/customer"
	"github.com/cassiomorais/checkout/internal/domain/delivery"
	"github.com/cassiomorais/checkout/internal/domain/product"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/cassiomorais/checkout/internal/gateway"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (float64 for money, string for
// IDs, validation tags). Controllers convert them to application-layer
// requests before calling business logic.

// CheckoutRequest holds the input for one checkout attempt.
type CheckoutRequest struct {
	ProductID    string              `json:"product_id" validate:"required,uuid"`
	Quantity     int                 `json:"quantity" validate:"required,gt=0"`
	Installments int                 `json:"installments" validate:"gte=0,lte=48"`
	Customer     CheckoutCustomerDTO `json:"customer" validate:"required"`
	Delivery     CheckoutDeliveryDTO `json:"delivery" validate:"required"`
	Card         CheckoutCardDTO     `json:"card" validate:"required"`
}

type CheckoutCustomerDTO struct {
	Email    string  `json:"email" validate:"required,email"`
	FullName string  `json:"full_name" validate:"required,min=2"`
	Phone    *string `json:"phone,omitempty"`
}

type CheckoutDeliveryDTO struct {
	Address    string  `json:"address" validate:"required"`
	City       string  `json:"city" validate:"required"`
	Region     string  `json:"region" validate:"required"`
	PostalCode *string `json:"postal_code,omitempty"`
}

type CheckoutCardDTO struct {
	Number     string `json:"number" validate:"required,numeric,min=13,max=19"`
	CVC        string `json:"cvc" validate:"required,numeric,min=3,max=4"`
	ExpMonth   string `json:"exp_month" validate:"required,len=2"`
	ExpYear    string `json:"exp_year" validate:"required,len=2"`
	HolderName string `json:"holder_name" validate:"required,min=2"`
}

// --- Response DTOs ---

// ProductResponse represents a catalog product in API responses.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DeliveryResponse represents a delivery record in API responses.
type DeliveryResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	Region     string    `json:"region"`
	PostalCode *string   `json:"postal_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID                   string    `json:"id"`
	CustomerID           string    `json:"customer_id"`
	ProductID            string    `json:"product_id"`
	DeliveryID           *string   `json:"delivery_id,omitempty"`
	Quantity             int       `json:"quantity"`
	ProductAmount        float64   `json:"product_amount"`
	BaseFee              float64   `json:"base_fee"`
	DeliveryFee          float64   `json:"delivery_fee"`
	TotalAmount          float64   `json:"total_amount"`
	Currency             string    `json:"currency"`
	Status               string    `json:"status"`
	GatewayTransactionID *string   `json:"gateway_transaction_id,omitempty"`
	GatewayReference     *string   `json:"gateway_reference,omitempty"`
	PaymentMethod        *string   `json:"payment_method,omitempty"`
	CardLastFour         *string   `json:"card_last_four,omitempty"`
	ErrorMessage         *string   `json:"error_message,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CheckoutResponse bundles everything one attempt produced.
type CheckoutResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Customer    *CustomerResponse    `json:"customer"`
	Delivery    *DeliveryResponse    `json:"delivery"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// ToProcessPaymentRequest converts a validated HTTP request to the
// application-layer request.
func (r CheckoutRequest) ToProcessPaymentRequest() (checkout.ProcessPaymentRequest, error) {
	productID, err := parseUUID("product_id", r.ProductID)
	if err != nil {
		return checkout.ProcessPaymentRequest{}, err
	}

	return checkout.ProcessPaymentRequest{
		ProductID:    productID,
		Quantity:     r.Quantity,
		Installments: r.Installments,
		Customer: checkout.CustomerInput{
			Email:    r.Customer.Email,
			FullName: r.Customer.FullName,
			Phone:    r.Customer.Phone,
		},
		Delivery: checkout.DeliveryInput{
			Address:    r.Delivery.Address,
			City:       r.Delivery.City,
			Region:     r.Delivery.Region,
			PostalCode: r.Delivery.PostalCode,
		},
		Card: gateway.Card{
			Number:     r.Card.Number,
			CVC:        r.Card.CVC,
			ExpMonth:   r.Card.ExpMonth,
			ExpYear:    r.Card.ExpYear,
			HolderName: r.Card.HolderName,
		},
	}, nil
}

// FromProduct converts a domain product to API response.
func FromProduct(p *product.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.Float64(),
		Currency:    p.Price.Currency,
		Stock:       p.Stock,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// FromCustomer converts a domain customer to API response.
func FromCustomer(c *customer.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:        c.ID.String(),
		Email:     c.Email,
		FullName:  c.FullName,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

// FromDelivery converts a domain delivery to API response.
func FromDelivery(d *delivery.Delivery) *DeliveryResponse {
	return &DeliveryResponse{
		ID:         d.ID.String(),
		CustomerID: d.CustomerID.String(),
		Address:    d.Address,
		City:       d.City,
		Region:     d.Region,
		PostalCode: d.PostalCode,
		CreatedAt:  d.CreatedAt,
	}
}

// FromTransaction converts a domain transaction to API response.
func FromTransaction(t *transaction.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:                   t.ID.String(),
		CustomerID:           t.CustomerID.String(),
		ProductID:            t.ProductID.String(),
		Quantity:             t.Quantity,
		ProductAmount:        t.ProductAmount.Float64(),
		BaseFee:              t.BaseFee.Float64(),
		DeliveryFee:          t.DeliveryFee.Float64(),
		TotalAmount:          t.TotalAmount.Float64(),
		Currency:             t.TotalAmount.Currency,
		Status:               string(t.Status),
		GatewayTransactionID: t.GatewayTransactionID,
		GatewayReference:     t.GatewayReference,
		PaymentMethod:        t.PaymentMethod,
		CardLastFour:         t.CardLastFour,
		ErrorMessage:         t.ErrorMessage,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
	if t.DeliveryID != nil {
		id := t.DeliveryID.String()
		resp.DeliveryID = &id
	}
	return resp
}

// FromCheckout converts a saga response to API response.
func FromCheckout(resp checkout.ProcessPaymentResponse) *CheckoutResponse {
	return &CheckoutResponse{
		Transaction: FromTransaction(resp.Transaction),
		Customer:    FromCustomer(resp.Customer),
		Delivery:    FromDelivery(resp.Delivery),
	}
}
