package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/iho/tradeledger/internal/adapter/http/dto"
	"github.com/iho/tradeledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeErrorKind(w, status, message, details, "")
}

func writeErrorKind(w http.ResponseWriter, status int, message, details, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
		Kind:    kind,
	})
}

// writeDomainError writes err with the status and kind derived from it.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	writeErrorKind(w, mapDomainError(err), message, err.Error(), domain.ErrorKind(err))
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch domain.ErrorKind(err) {
	case domain.KindInvalidTrade,
		domain.KindInsufficientBalance,
		domain.KindInsufficientHoldings,
		domain.KindInvalidAccountName:
		return http.StatusBadRequest
	case domain.KindAccountNotFound:
		return http.StatusNotFound
	case domain.KindAccountExists:
		return http.StatusConflict
	case domain.KindStorageFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
