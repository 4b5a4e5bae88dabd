package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"cafeteria-backend/internal/domain"
)

type successEnvelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data"`
	Pagination interface{} `json:"pagination,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, successEnvelope{Success: true, Message: message, Data: data})
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: message})
}

// writeError maps domain errors to HTTP statuses. Anything unrecognized is a
// 500 with a generic body so internal details never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation   *domain.ValidationError
		notFound     *domain.NotFoundError
		authz        *domain.AuthorizationError
		insufficient *domain.InsufficientStockError
	)
	switch {
	case errors.As(err, &validation):
		writeErrorMessage(w, http.StatusBadRequest, validation.Message)
	case errors.As(err, &notFound):
		writeErrorMessage(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &authz):
		writeErrorMessage(w, http.StatusForbidden, authz.Message)
	case errors.As(err, &insufficient):
		writeErrorMessage(w, http.StatusConflict, insufficient.Error())
	default:
		writeErrorMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
