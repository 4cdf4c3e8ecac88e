package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/pkg/result"
	"github.com/google/uuid"
)

// Sandbox test cards. The last four digits of the card number select the
// outcome, mirroring the gateway's sandbox environment.
const (
	sandboxApprovedSuffix = "4242"
	sandboxDeclinedSuffix = "1111"
	sandboxPendingSuffix  = "9999"
)

// Sandbox is an in-memory gateway used for local development and tests.
// Deterministic: the card number decides the payment outcome.
type Sandbox struct {
	mu           sync.Mutex
	transactions map[string]PaymentResult

	latency        time.Duration
	declineMessage string
	settlePending  bool

	acceptanceErr error
	paymentErr    error
}

// SandboxOption configures a Sandbox.
type SandboxOption func(*Sandbox)

// WithLatency makes every sandbox call sleep for d.
func WithLatency(d time.Duration) SandboxOption {
	return func(s *Sandbox) { s.latency = d }
}

// WithDeclineMessage sets the status message returned on declines. The
// default is empty, matching gateways that omit it.
func WithDeclineMessage(msg string) SandboxOption {
	return func(s *Sandbox) { s.declineMessage = msg }
}

// WithSettlePending makes status queries settle PENDING transactions to
// APPROVED, simulating asynchronous gateway settlement.
func WithSettlePending() SandboxOption {
	return func(s *Sandbox) { s.settlePending = true }
}

// WithAcceptanceError makes GetAcceptanceToken fail with err.
func WithAcceptanceError(err error) SandboxOption {
	return func(s *Sandbox) { s.acceptanceErr = err }
}

// WithPaymentError makes CreatePayment fail with err before any
// transaction is recorded.
func WithPaymentError(err error) SandboxOption {
	return func(s *Sandbox) { s.paymentErr = err }
}

// NewSandbox creates a sandbox gateway.
func NewSandbox(opts ...SandboxOption) *Sandbox {
	s := &Sandbox{transactions: make(map[string]PaymentResult)}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Sandbox) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetAcceptanceToken returns a synthetic acceptance token.
func (s *Sandbox) GetAcceptanceToken(ctx context.Context) result.Result[AcceptanceToken] {
	if err := s.wait(ctx); err != nil {
		return result.Fail[AcceptanceToken](err)
	}
	if s.acceptanceErr != nil {
		return result.Fail[AcceptanceToken](s.acceptanceErr)
	}
	return result.Ok(AcceptanceToken{
		Token:     "sandbox_acceptance_" + uuid.NewString()[:8],
		Permalink: "https://sandbox.gateway.test/terms",
		Type:      "END_USER_POLICY",
	})
}

// TokenizeCard tokenizes any plausible card number; short or non-numeric
// numbers are rejected as invalid cards.
func (s *Sandbox) TokenizeCard(ctx context.Context, card Card) result.Result[CardToken] {
	if err := s.wait(ctx); err != nil {
		return result.Fail[CardToken](err)
	}

	number := strings.ReplaceAll(card.Number, " ", "")
	if len(number) < 13 || len(number) > 19 {
		return result.Fail[CardToken](domainErrors.NewInvalidCard("card number length is invalid"))
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return result.Fail[CardToken](domainErrors.NewInvalidCard("card number must be numeric"))
		}
	}

	return result.Ok(CardToken{
		Token:    "tok_sandbox_" + uuid.NewString()[:8] + "_" + number[len(number)-4:],
		Brand:    "VISA",
		LastFour: number[len(number)-4:],
		ExpMonth: card.ExpMonth,
		ExpYear:  card.ExpYear,
	})
}

// CreatePayment records a payment whose status is selected by the card
// suffix embedded in the token.
func (s *Sandbox) CreatePayment(ctx context.Context, req PaymentRequest) result.Result[PaymentResult] {
	if err := s.wait(ctx); err != nil {
		return result.Fail[PaymentResult](err)
	}
	if s.paymentErr != nil {
		return result.Fail[PaymentResult](s.paymentErr)
	}

	status := StatusApproved
	message := ""
	switch {
	case strings.HasSuffix(req.Method.Token, sandboxDeclinedSuffix):
		status = StatusDeclined
		message = s.declineMessage
	case strings.HasSuffix(req.Method.Token, sandboxPendingSuffix):
		status = StatusPending
	}

	res := PaymentResult{
		ID:            fmt.Sprintf("sandbox-%s", uuid.NewString()),
		Reference:     req.Reference,
		Status:        status,
		StatusMessage: message,
		MethodType:    req.Method.Type,
		AmountInCents: req.AmountInCents,
		Currency:      req.Currency,
	}

	s.mu.Lock()
	s.transactions[res.ID] = res
	s.mu.Unlock()

	return result.Ok(res)
}

// GetTransaction returns the recorded state of a sandbox payment.
func (s *Sandbox) GetTransaction(ctx context.Context, gatewayID string) result.Result[PaymentResult] {
	if err := s.wait(ctx); err != nil {
		return result.Fail[PaymentResult](err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.transactions[gatewayID]
	if !ok {
		return result.Fail[PaymentResult](fmt.Errorf("sandbox: unknown transaction %s", gatewayID))
	}
	if s.settlePending && res.Status == StatusPending {
		res.Status = StatusApproved
		s.transactions[gatewayID] = res
	}
	return result.Ok(res)
}
