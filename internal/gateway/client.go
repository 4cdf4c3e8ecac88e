package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/pkg/result"
	"github.com/cassiomorais/checkout/pkg/retry"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

const acceptanceTokenCacheKey = "gateway:acceptance_token"

// TokenCache caches short-lived gateway artifacts. Backed by Redis in
// production; a nil cache disables caching.
type TokenCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// ClientConfig holds the settings for the HTTP gateway adapter.
type ClientConfig struct {
	BaseURL            string
	PublicKey          string
	PrivateKey         string
	Timeout            time.Duration
	AcceptanceTokenTTL time.Duration
}

// Client is the HTTP adapter for the payment gateway. All calls go
// through a circuit breaker; read-only calls additionally retry with
// backoff. CreatePayment is issued exactly once per invocation.
type Client struct {
	cfg     ClientConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	tokens  TokenCache
	retry   retry.Config
	logger  zerolog.Logger
}

// NewClient creates an HTTP gateway adapter.
func NewClient(cfg ClientConfig, tokens TokenCache, logger zerolog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.AcceptanceTokenTTL <= 0 {
		cfg.AcceptanceTokenTTL = 10 * time.Minute
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
			Name:        "payment-gateway",
			MaxRequests: 5,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 10 && failureRatio >= 0.6
			},
		}),
		tokens: tokens,
		retry:  retry.DefaultConfig(),
		logger: logger.With().Str("component", "gateway").Logger(),
	}
}

// --- wire shapes ---

type merchantEnvelope struct {
	Data struct {
		PresignedAcceptance struct {
			AcceptanceToken string `json:"acceptance_token"`
			Permalink       string `json:"permalink"`
			Type            string `json:"type"`
		} `json:"presigned_acceptance"`
	} `json:"data"`
}

type cardTokenRequest struct {
	Number     string `json:"number"`
	CVC        string `json:"cvc"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	CardHolder string `json:"card_holder"`
}

type cardTokenEnvelope struct {
	Data struct {
		ID       string `json:"id"`
		Brand    string `json:"brand"`
		LastFour string `json:"last_four"`
		ExpMonth string `json:"exp_month"`
		ExpYear  string `json:"exp_year"`
	} `json:"data"`
}

type paymentMethodBody struct {
	Type         string `json:"type"`
	Token        string `json:"token"`
	Installments int    `json:"installments"`
}

type customerDataBody struct {
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type createPaymentBody struct {
	AmountInCents   int64             `json:"amount_in_cents"`
	Currency        string            `json:"currency"`
	CustomerEmail   string            `json:"customer_email"`
	Reference       string            `json:"reference"`
	AcceptanceToken string            `json:"acceptance_token"`
	PaymentMethod   paymentMethodBody `json:"payment_method"`
	CustomerData    *customerDataBody `json:"customer_data,omitempty"`
}

type transactionEnvelope struct {
	Data struct {
		ID                string `json:"id"`
		Reference         string `json:"reference"`
		Status            string `json:"status"`
		StatusMessage     string `json:"status_message"`
		PaymentMethodType string `json:"payment_method_type"`
		AmountInCents     int64  `json:"amount_in_cents"`
		Currency          string `json:"currency"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

// --- Gateway implementation ---

// GetAcceptanceToken fetches (and caches) the merchant acceptance token.
func (c *Client) GetAcceptanceToken(ctx context.Context) result.Result[AcceptanceToken] {
	if c.tokens != nil {
		if cached, ok := c.tokens.Get(ctx, acceptanceTokenCacheKey); ok {
			return result.Ok(AcceptanceToken{Token: cached})
		}
	}

	env, err := retry.DoWithResult(ctx, c.retry, func() (merchantEnvelope, error) {
		var env merchantEnvelope
		body, err := c.do(ctx, http.MethodGet, "/v1/merchants/"+c.cfg.PublicKey, c.cfg.PublicKey, nil)
		if err != nil {
			return env, err
		}
		return env, json.Unmarshal(body, &env)
	})
	if err != nil {
		return result.Fail[AcceptanceToken](fmt.Errorf("acceptance token: %w", err))
	}

	token := AcceptanceToken{
		Token:     env.Data.PresignedAcceptance.AcceptanceToken,
		Permalink: env.Data.PresignedAcceptance.Permalink,
		Type:      env.Data.PresignedAcceptance.Type,
	}
	if token.Token == "" {
		return result.Fail[AcceptanceToken](fmt.Errorf("acceptance token: empty token in gateway response"))
	}
	if c.tokens != nil {
		c.tokens.Set(ctx, acceptanceTokenCacheKey, token.Token, c.cfg.AcceptanceTokenTTL)
	}
	return result.Ok(token)
}

// TokenizeCard exchanges raw card data for an opaque token.
func (c *Client) TokenizeCard(ctx context.Context, card Card) result.Result[CardToken] {
	payload := cardTokenRequest{
		Number:     card.Number,
		CVC:        card.CVC,
		ExpMonth:   card.ExpMonth,
		ExpYear:    card.ExpYear,
		CardHolder: card.HolderName,
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/tokens/cards", c.cfg.PublicKey, payload)
	if err != nil {
		var httpErr *httpError
		if errors.As(err, &httpErr) && httpErr.status == http.StatusUnprocessableEntity {
			return result.Fail[CardToken](domainErrors.NewInvalidCard(httpErr.reason))
		}
		return result.Fail[CardToken](fmt.Errorf("tokenize card: %w", err))
	}

	var env cardTokenEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return result.Fail[CardToken](fmt.Errorf("tokenize card: decode response: %w", err))
	}
	return result.Ok(CardToken{
		Token:    env.Data.ID,
		Brand:    env.Data.Brand,
		LastFour: env.Data.LastFour,
		ExpMonth: env.Data.ExpMonth,
		ExpYear:  env.Data.ExpYear,
	})
}

// CreatePayment creates a gateway payment. Never retried: a timeout here
// leaves the transaction PENDING for reconciliation to settle later.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) result.Result[PaymentResult] {
	payload := createPaymentBody{
		AmountInCents:   req.AmountInCents,
		Currency:        req.Currency,
		CustomerEmail:   req.CustomerEmail,
		Reference:       req.Reference,
		AcceptanceToken: req.AcceptanceToken,
		PaymentMethod: paymentMethodBody{
			Type:         req.Method.Type,
			Token:        req.Method.Token,
			Installments: req.Method.Installments,
		},
	}
	if req.Customer != nil {
		payload.CustomerData = &customerDataBody{
			FullName:    req.Customer.FullName,
			PhoneNumber: req.Customer.Phone,
		}
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/transactions", c.cfg.PrivateKey, payload)
	if err != nil {
		return result.Fail[PaymentResult](fmt.Errorf("create payment: %w", err))
	}
	return c.decodeTransaction(body, "create payment")
}

// GetTransaction queries the gateway state of a payment.
func (c *Client) GetTransaction(ctx context.Context, gatewayID string) result.Result[PaymentResult] {
	body, err := retry.DoWithResult(ctx, c.retry, func() ([]byte, error) {
		return c.do(ctx, http.MethodGet, "/v1/transactions/"+gatewayID, c.cfg.PrivateKey, nil)
	})
	if err != nil {
		return result.Fail[PaymentResult](fmt.Errorf("get transaction %s: %w", gatewayID, err))
	}
	return c.decodeTransaction(body, "get transaction")
}

func (c *Client) decodeTransaction(body []byte, op string) result.Result[PaymentResult] {
	var env transactionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return result.Fail[PaymentResult](fmt.Errorf("%s: decode response: %w", op, err))
	}
	return result.Ok(PaymentResult{
		ID:            env.Data.ID,
		Reference:     env.Data.Reference,
		Status:        strings.ToUpper(env.Data.Status),
		StatusMessage: env.Data.StatusMessage,
		MethodType:    env.Data.PaymentMethodType,
		AmountInCents: env.Data.AmountInCents,
		Currency:      env.Data.Currency,
	})
}

// httpError carries the status and gateway-supplied reason of a non-2xx
// response so callers can map specific statuses to domain errors.
type httpError struct {
	status int
	reason string
}

func (e *httpError) Error() string {
	if e.reason != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.status, e.reason)
	}
	return fmt.Sprintf("gateway returned %d", e.status)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload any) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var reqBody io.Reader
		if payload != nil {
			buf, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("encode request: %w", err)
			}
			reqBody = bytes.NewReader(buf)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+bearer)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var env errorEnvelope
			_ = json.Unmarshal(body, &env)
			c.logger.Warn().
				Str("method", method).
				Str("path", path).
				Int("status", resp.StatusCode).
				Str("reason", env.Error.Reason).
				Msg("gateway call failed")
			return nil, &httpError{status: resp.StatusCode, reason: env.Error.Reason}
		}
		return body, nil
	})
}
