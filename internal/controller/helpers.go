package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// statusByCode maps domain error codes to HTTP statuses. Codes absent
// from the table fall through to 422 for domain errors and 500 for
// everything else.
var statusByCode = map[string]int{
	domainErrors.CodeProductNotFound:     http.StatusNotFound,
	domainErrors.CodeTransactionNotFound: http.StatusNotFound,
	domainErrors.CodeCustomerNotFound:    http.StatusNotFound,
	domainErrors.CodeInsufficientStock:   http.StatusUnprocessableEntity,
	domainErrors.CodeInvalidCard:         http.StatusUnprocessableEntity,
	domainErrors.CodePaymentFailed:       http.StatusPaymentRequired,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	if errors.Is(err, domainErrors.ErrInvalidTransition) {
		resp.Code = "invalid_state_transition"
		writeJSON(w, http.StatusConflict, resp)
		return
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}

func parseUUID(field, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, domainErrors.NewValidationError(field, "must be a valid UUID")
	}
	return id, nil
}
