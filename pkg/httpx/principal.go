package httpx

import (
	"context"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type principalKey struct{}

// WithAccountID returns a context carrying the signed-in account id.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, principalKey{}, accountID)
}

// AccountID returns the account id put there by the session middleware.
func AccountID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(principalKey{}).(string)
	return id, ok && id != ""
}

// RequireAccount writes a 401 and returns false when the request carries no
// account.
func RequireAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := AccountID(r.Context())
	if !ok {
		WriteError(w, status.Error(codes.Unauthenticated, "no active session"))
	}
	return id, ok
}
