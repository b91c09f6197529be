package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"eneagramas-site/internal/domain"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeDomainError maps sentinel errors onto status codes.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	WriteError(w, r, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrStationNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidContact):
		return http.StatusBadRequest, "invalid_contact"
	case errors.Is(err, domain.ErrUnanswered):
		return http.StatusConflict, "unanswered"
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrOptionNotFound):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrUnknownStation), errors.Is(err, domain.ErrDataIntegrity):
		return http.StatusUnprocessableEntity, "data_integrity"
	case errors.Is(err, domain.ErrDatasetNotFound):
		return http.StatusServiceUnavailable, "dataset_unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
