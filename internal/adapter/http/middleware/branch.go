package middleware

import (
	"context"
	"net/http"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/bankledger/internal/domain"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// BranchContextKey is the context key for the caller's branch context
	BranchContextKey ContextKey = "branch"
)

// Branch context headers.
const (
	BranchIDHeader         = "X-Branch-ID"
	BranchCodeHeader       = "X-Branch-Code"
	ExternalBranchIDHeader = "X-External-Branch-ID"
	UserIDHeader           = "X-User-ID"
)

// BranchContext builds the caller's domain.BranchContext from request
// headers and chi's request id and stores it in the request context.
func BranchContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		branch := domain.BranchContext{
			BranchID:         strings.TrimSpace(r.Header.Get(BranchIDHeader)),
			BranchCode:       strings.TrimSpace(r.Header.Get(BranchCodeHeader)),
			ExternalBranchID: strings.TrimSpace(r.Header.Get(ExternalBranchIDHeader)),
			UserID:           strings.TrimSpace(r.Header.Get(UserIDHeader)),
			RequestID:        chimw.GetReqID(r.Context()),
		}

		ctx := context.WithValue(r.Context(), BranchContextKey, branch)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// BranchFromContext returns the branch context attached by BranchContext.
// The zero value is returned when none was attached.
func BranchFromContext(ctx context.Context) domain.BranchContext {
	branch, _ := ctx.Value(BranchContextKey).(domain.BranchContext)
	return branch
}
