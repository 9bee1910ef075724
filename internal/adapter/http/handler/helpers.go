package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/logger"
)

const internalErrorMessage = "internal server error"

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// respondError maps err to a status and writes it. Server-side failures are
// logged in full and answered with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := mapDomainError(err)

	resp := dto.ErrorResponse{Error: message, Message: err.Error()}

	var txErr *domain.TransactionError
	if errors.As(err, &txErr) {
		resp.Reference = txErr.Reference
	}

	if status >= http.StatusInternalServerError {
		l := logger.FromContext(r.Context(), log.Logger)
		l.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("reference", resp.Reference).
			Msg(message)

		resp.Message = internalErrorMessage
	}

	writeJSON(w, status, resp)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrRuleNotFound),
		errors.Is(err, domain.ErrEntriesNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateTransaction),
		errors.Is(err, domain.ErrTransactionInProgress),
		errors.Is(err, domain.ErrAccountRetired):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDoubleEntryViolation),
		errors.Is(err, domain.ErrEntryNotReversible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountTooSmall),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidReference),
		errors.Is(err, domain.ErrNoAmountLines),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidQueryLevel),
		errors.Is(err, domain.ErrInvalidAccount),
		errors.Is(err, domain.ErrInvalidAccountName),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidRule),
		errors.Is(err, dto.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeAndValidate reads a JSON body into req and checks its tags.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}

	if err := dto.Validate(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return false
	}

	return true
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

// parseListQuery splits a comma separated query parameter. Repeated keys
// are accepted too.
func parseListQuery(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// parseDateQuery parses a required YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidDateRange, key)
	}

	t, err := time.Parse(time.DateOnly, val)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidDateRange, key)
	}

	return t, nil
}

// parsePeriod reads the from and to query parameters.
func parsePeriod(r *http.Request) (domain.ReportPeriod, error) {
	from, err := parseDateQuery(r, "from")
	if err != nil {
		return domain.ReportPeriod{}, err
	}

	to, err := parseDateQuery(r, "to")
	if err != nil {
		return domain.ReportPeriod{}, err
	}

	period := domain.ReportPeriod{From: from, To: to}

	return period, period.Validate()
}

func parseCategories(values []string) ([]domain.AccountCategory, error) {
	if len(values) == 0 {
		return nil, nil
	}

	categories := make([]domain.AccountCategory, 0, len(values))
	for _, v := range values {
		c, err := domain.ParseAccountCategory(v)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, nil
}
