package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		payload      any
		expectedBody string
	}{
		{
			name:         "simple map",
			status:       http.StatusOK,
			payload:      map[string]string{"message": "hello"},
			expectedBody: `{"message":"hello"}`,
		},
		{
			name:         "struct",
			status:       http.StatusCreated,
			payload:      struct{ ID string }{ID: "123"},
			expectedBody: `{"ID":"123"}`,
		},
		{
			name:         "error response",
			status:       http.StatusBadRequest,
			payload:      ErrorResponse{Error: "bad request", Code: "invalid_input"},
			expectedBody: `{"error":"bad request","code":"invalid_input"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeJSON(w, tt.status, tt.payload)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestWriteError_ValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	err := domainErrors.NewValidationError("email", "must be a valid email")

	writeError(w, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response ErrorResponse
	json.NewDecoder(w.Body).Decode(&response)
	assert.Equal(t, "validation_error", response.Code)
	assert.Contains(t, response.Error, "email")
}

func TestWriteError_DomainErrors(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "product not found",
			err:            domainErrors.NewProductNotFound(id),
			expectedStatus: http.StatusNotFound,
			expectedCode:   domainErrors.CodeProductNotFound,
		},
		{
			name:           "transaction not found",
			err:            domainErrors.NewTransactionNotFound(id),
			expectedStatus: http.StatusNotFound,
			expectedCode:   domainErrors.CodeTransactionNotFound,
		},
		{
			name:           "customer not found",
			err:            domainErrors.NewCustomerNotFound("buyer@example.com"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   domainErrors.CodeCustomerNotFound,
		},
		{
			name:           "insufficient stock",
			err:            domainErrors.NewInsufficientStock(id, 5, 2),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   domainErrors.CodeInsufficientStock,
		},
		{
			name:           "invalid card",
			err:            domainErrors.NewInvalidCard("card number rejected"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   domainErrors.CodeInvalidCard,
		},
		{
			name:           "payment failed",
			err:            domainErrors.NewPaymentFailed("gateway unreachable", errors.New("dial timeout")),
			expectedStatus: http.StatusPaymentRequired,
			expectedCode:   domainErrors.CodePaymentFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			writeError(w, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
			assert.Equal(t, tt.expectedCode, response.Code)
		})
	}
}

func TestWriteError_InvalidTransition(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, domainErrors.ErrInvalidTransition)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "invalid_state_transition", response.Code)
}

func TestWriteError_UnknownDomainCode(t *testing.T) {
	w := httptest.NewRecorder()
	err := &domainErrors.DomainError{Code: "SOMETHING_ELSE", Message: "odd state"}

	writeError(w, err)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "SOMETHING_ELSE", response.Code)
}

func TestWriteError_GenericErrorIsOpaque(t *testing.T) {
	w := httptest.NewRecorder()

	writeError(w, errors.New("pq: connection refused on 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "internal_error", response.Code)
	assert.Equal(t, "internal server error", response.Error)
	assert.NotContains(t, response.Error, "10.0.0.3")
}

func TestParseUUID(t *testing.T) {
	id := uuid.New()

	parsed, err := parseUUID("id", id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = parseUUID("id", "not-a-uuid")
	require.Error(t, err)

	var validationErr *domainErrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "id", validationErr.Field)
}
