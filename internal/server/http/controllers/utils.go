package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rzbill/tixid/internal/ledger"
	idsvc "github.com/rzbill/tixid/internal/services/ids"
	"github.com/rzbill/tixid/pkg/snowflake"
)

// Helper functions for common HTTP responses

// writeError writes a failed envelope with the given status code.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeEnvelope(w, status, apiResponse{Success: false, Message: message, ErrorCode: code})
}

// writeJSON writes a successful envelope around data.
func writeJSON(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, apiResponse{Success: true, Data: data})
}

func writeEnvelope(w http.ResponseWriter, status int, resp apiResponse) {
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps service errors to status codes and error codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var rerr *snowflake.ClockRegressionError
	switch {
	case errors.As(err, &rerr):
		w.Header().Set("Retry-After", strconv.FormatInt(retryAfterSeconds(rerr.Regression()), 10))
		writeError(w, http.StatusServiceUnavailable, codeClockRegression, err.Error())
	case errors.Is(err, snowflake.ErrClockOutOfRange):
		writeError(w, http.StatusServiceUnavailable, codeClockOutOfRange, err.Error())
	case errors.Is(err, snowflake.ErrInvalidNumber):
		writeError(w, http.StatusBadRequest, codeInvalidNumber, err.Error())
	case errors.Is(err, ledger.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, codeInvalidFilter, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, ledger.ErrDuplicate):
		writeError(w, http.StatusConflict, codeDuplicate, err.Error())
	case errors.Is(err, idsvc.ErrLedgerDisabled):
		writeError(w, http.StatusNotImplemented, codeLedgerDisabled, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, codeUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

// retryAfterSeconds rounds a regression up to whole seconds, minimum 1.
func retryAfterSeconds(ms int64) int64 {
	s := (ms + 999) / 1000
	if s < 1 {
		return 1
	}
	return s
}

// allowMethod writes 405 and returns false unless r uses method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, codeMethod, "Method not allowed")
	return false
}

// parseLimit parses a limit string and returns a valid limit value.
//
// Returns 0 for empty strings or invalid values.
func parseLimit(limitStr string) int {
	if limitStr == "" {
		return 0
	}
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		return limit
	}
	return 0
}

// parseBool returns true for "true" or "1", false otherwise.
func parseBool(s string) bool {
	return s == "true" || s == "1"
}
