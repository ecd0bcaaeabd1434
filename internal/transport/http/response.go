package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/buildingMicroservices/catalog-api/internal/domain"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// SuccessEnvelope wraps every successful JSON response body
type SuccessEnvelope struct {
	Status  string `json:"status"`
	Payload any    `json:"payload"`
}

// ErrorEnvelope is the body of every failed request
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, SuccessEnvelope{Status: statusSuccess, Payload: payload})
}

// writeError renders err with the status of its kind. Untagged errors are
// logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, logger hclog.Logger, err error) {
	status := domain.StatusOf(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		logger.Error("Unexpected error", "error", err)
		message = "Internal server error"
	}

	writeJSON(w, status, ErrorEnvelope{Status: statusError, Message: message})
}

// decodeBody decodes the JSON request body into v. An empty body leaves v
// untouched; malformed JSON is a validation error.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr
	}
	return domain.NewValidationError("body", "Invalid JSON body: %s", err)
}
