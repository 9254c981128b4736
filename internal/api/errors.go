package api

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"dashboard/internal/workflow"
	"dashboard/pkg/backend"
)

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorEnvelope{Error: APIError{Code: code, Message: message}})
}

// WriteFieldError reports an error the dashboard renders inline next to a form field.
func WriteFieldError(w http.ResponseWriter, status int, field, code, message string) {
	WriteJSON(w, status, ErrorEnvelope{Error: APIError{Code: code, Message: message, Field: field}})
}

// WriteWorkflowError maps lifecycle errors onto the envelope. Anything unrecognised is logged
// and reported as an upstream failure.
func WriteWorkflowError(w http.ResponseWriter, r *http.Request, err error) {
	var ve workflow.ValidationError
	var re workflow.RejectedError
	var be *backend.APIError
	switch {
	case errors.As(err, &ve):
		WriteFieldError(w, http.StatusUnprocessableEntity, ve.Field, ve.Code, ve.Message)
	case errors.As(err, &re):
		WriteError(w, http.StatusConflict, re.Code, re.Message)
	case errors.Is(err, workflow.ErrUnknownDomain):
		WriteError(w, http.StatusNotFound, "UNKNOWN_DOMAIN", "unknown entity type")
	case errors.Is(err, workflow.ErrUnknownStatus):
		WriteError(w, http.StatusNotFound, "UNKNOWN_STATUS", "unknown status")
	case errors.Is(err, workflow.ErrTransitionNotAllowed):
		WriteError(w, http.StatusForbidden, "TRANSITION_NOT_ALLOWED", "this action is not available")
	case errors.Is(err, workflow.ErrTransitionInFlight):
		WriteError(w, http.StatusConflict, "TRANSITION_IN_FLIGHT", "an update for this item is already in progress")
	case errors.As(err, &be) && be.StatusCode == http.StatusNotFound:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found")
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		WriteError(w, http.StatusBadGateway, "UPSTREAM", "failed to reach the backend")
	}
}
