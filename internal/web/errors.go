package web

// errors.go provides unified error response handling for the web layer.
// Technical detail is logged with the request id for correlation; clients
// get a JSON body with a stable code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/JonMunkholm/SalesOrders/internal/core"
	"github.com/JonMunkholm/SalesOrders/internal/domain"
	"github.com/JonMunkholm/SalesOrders/internal/logging"
	"github.com/JonMunkholm/SalesOrders/internal/sheet"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError classifies err into a status and stable code, logs it and
// writes the JSON response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	s.respondErrorStatus(w, r, err, status, code)
}

func (s *Server) respondErrorStatus(w http.ResponseWriter, r *http.Request, err error, status int, code string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", code,
		"error", err.Error(),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error(), Code: code})
}

// classify maps core error types to HTTP statuses:
// malformed sheet content is the client's data (422), a missing import
// file is 404, other file access trouble is 500, invariant violations are
// 422, anything else is 500.
func classify(err error) (int, string) {
	var rowErr *sheet.RowError
	if errors.As(err, &rowErr) {
		return http.StatusUnprocessableEntity, "MALFORMED_ROW"
	}
	var accessErr *sheet.AccessError
	if errors.As(err, &accessErr) {
		if errors.Is(err, os.ErrNotExist) {
			return http.StatusNotFound, "SHEET_NOT_FOUND"
		}
		return http.StatusInternalServerError, "SHEET_ACCESS"
	}
	var invErr *domain.InvariantViolation
	if errors.As(err, &invErr) {
		return http.StatusUnprocessableEntity, "INVARIANT_VIOLATION"
	}
	if errors.Is(err, core.ErrInvalidInput) {
		return http.StatusBadRequest, "INVALID_INPUT"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
