package gateway_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, s *gateway.Sandbox, number string) gateway.CardToken {
	t.Helper()
	r := s.TokenizeCard(context.Background(), gateway.Card{
		Number: number, CVC: "123", ExpMonth: "12", ExpYear: "29", HolderName: "Jane Doe",
	})
	require.True(t, r.IsSuccess())
	return r.Value()
}

func pay(t *testing.T, s *gateway.Sandbox, token string) gateway.PaymentResult {
	t.Helper()
	r := s.CreatePayment(context.Background(), gateway.PaymentRequest{
		AmountInCents:   155_000_000,
		Currency:        "COP",
		CustomerEmail:   "jane@example.com",
		Reference:       "ref-1",
		AcceptanceToken: "acc",
		Method:          gateway.PaymentMethod{Type: "CARD", Token: token, Installments: 1},
	})
	require.True(t, r.IsSuccess())
	return r.Value()
}

func TestSandbox_AcceptanceToken(t *testing.T) {
	s := gateway.NewSandbox()
	r := s.GetAcceptanceToken(context.Background())
	require.True(t, r.IsSuccess())
	assert.NotEmpty(t, r.Value().Token)
}

func TestSandbox_AcceptanceTokenError(t *testing.T) {
	boom := errors.New("gateway unavailable")
	s := gateway.NewSandbox(gateway.WithAcceptanceError(boom))
	r := s.GetAcceptanceToken(context.Background())
	require.True(t, r.IsFailure())
	assert.ErrorIs(t, r.Err(), boom)
}

func TestSandbox_TokenizeInvalidCard(t *testing.T) {
	s := gateway.NewSandbox()

	r := s.TokenizeCard(context.Background(), gateway.Card{Number: "1234"})
	require.True(t, r.IsFailure())
	assert.Equal(t, domainErrors.CodeInvalidCard, domainErrors.CodeOf(r.Err()))

	r = s.TokenizeCard(context.Background(), gateway.Card{Number: "4242abcd42424242"})
	require.True(t, r.IsFailure())
	assert.Equal(t, domainErrors.CodeInvalidCard, domainErrors.CodeOf(r.Err()))
}

func TestSandbox_OutcomeByCardSuffix(t *testing.T) {
	s := gateway.NewSandbox()

	approved := pay(t, s, tokenize(t, s, "4242424242424242").Token)
	assert.Equal(t, gateway.StatusApproved, approved.Status)

	declined := pay(t, s, tokenize(t, s, "4111111111111111").Token)
	assert.Equal(t, gateway.StatusDeclined, declined.Status)
	assert.Empty(t, declined.StatusMessage)

	pending := pay(t, s, tokenize(t, s, "4999999999999999").Token)
	assert.Equal(t, gateway.StatusPending, pending.Status)
}

func TestSandbox_GetTransaction(t *testing.T) {
	s := gateway.NewSandbox()
	created := pay(t, s, tokenize(t, s, "4242424242424242").Token)

	r := s.GetTransaction(context.Background(), created.ID)
	require.True(t, r.IsSuccess())
	assert.Equal(t, created, r.Value())

	r = s.GetTransaction(context.Background(), "missing")
	assert.True(t, r.IsFailure())
}

func TestSandbox_SettlePending(t *testing.T) {
	s := gateway.NewSandbox(gateway.WithSettlePending())
	created := pay(t, s, tokenize(t, s, "4999999999999999").Token)
	require.Equal(t, gateway.StatusPending, created.Status)

	r := s.GetTransaction(context.Background(), created.ID)
	require.True(t, r.IsSuccess())
	assert.Equal(t, gateway.StatusApproved, r.Value().Status)
}
