package controller

import (
	"net/http"
	"time"

	"github.com/cassiomorais/checkout/internal/application/checkout"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/go-chi/chi/v5"
)

// CheckoutController handles the checkout saga and transaction reads.
type CheckoutController struct {
	processPayment  *checkout.ProcessPaymentUseCase
	getTransaction  *checkout.GetTransactionUseCase
	customerHistory *checkout.CustomerHistoryUseCase
	metrics         *observability.Metrics
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(
	processPayment *checkout.ProcessPaymentUseCase,
	getTransaction *checkout.GetTransactionUseCase,
	customerHistory *checkout.CustomerHistoryUseCase,
	metrics *observability.Metrics,
) *CheckoutController {
	return &CheckoutController{
		processPayment:  processPayment,
		getTransaction:  getTransaction,
		customerHistory: customerHistory,
		metrics:         metrics,
	}
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	appReq, err := req.ToProcessPaymentRequest()
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	res := h.processPayment.Execute(r.Context(), appReq)

	status := "failed"
	if res.IsSuccess() {
		status = string(res.Value().Transaction.Status)
	}
	h.metrics.CheckoutsTotal.WithLabelValues(status).Inc()
	h.metrics.CheckoutDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	if res.IsFailure() {
		writeError(w, res.Err())
		return
	}

	writeJSON(w, http.StatusCreated, FromCheckout(res.Value()))
}

// GetTransaction handles GET /api/v1/transactions/{id}. The read passes
// through lazy reconciliation, so the returned status may be fresher
// than the last write.
func (h *CheckoutController) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	res := h.getTransaction.Execute(r.Context(), id)
	if res.IsFailure() {
		writeError(w, res.Err())
		return
	}

	writeJSON(w, http.StatusOK, FromTransaction(res.Value()))
}

// ListCustomerTransactions handles GET /api/v1/customers/{id}/transactions
func (h *CheckoutController) ListCustomerTransactions(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	txns, err := h.customerHistory.Transactions(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, FromTransaction(t))
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": out})
}

// ListCustomerDeliveries handles GET /api/v1/customers/{id}/deliveries
func (h *CheckoutController) ListCustomerDeliveries(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID("id", chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	deliveries, err := h.customerHistory.Deliveries(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, FromDelivery(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"deliveries": out})
}
