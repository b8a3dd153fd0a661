package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Cookie names shared by the login, refresh and logout handlers.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// contextKey is package-private so no other package can read or shadow the
// identity stored by RequireAuth.
type contextKey string

const identityKey contextKey = "identity"

// Authenticator turns a raw access token into the caller's identity.
//
// *TokenService satisfies it statelessly. service.AuthService wraps it and
// also rejects tokens whose account no longer exists.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (Identity, error)
}

// Authenticate is the stateless Authenticator: signature, audience and
// expiry only.
func (s *TokenService) Authenticate(_ context.Context, accessToken string) (Identity, error) {
	return s.ValidateAccess(accessToken)
}

// RequireAuth rejects requests without a valid access token with 401 and
// stores the caller's Identity in the request context otherwise.
//
// TOKEN LOOKUP ORDER:
//  1. the "accessToken" HttpOnly cookie (browsers)
//  2. "Authorization: Bearer <jwt>" (mobile and API clients)
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				writeUnauthorized(w, "Unauthorized request")
				return
			}
			id, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				writeUnauthorized(w, "Invalid access token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying id. Handler tests use it to
// fake an authenticated request without minting a token.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the identity stored by RequireAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// UserIDFromContext is IdentityFromContext for callers that only need the
// account id.
//
//	userID, ok := auth.UserIDFromContext(r.Context())
//	if !ok {
//	    // anonymous request
//	}
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// writeUnauthorized emits the same failure envelope the handler package
// uses, so clients see one error shape regardless of which layer refused.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusUnauthorized,
		"message":    message,
		"success":    false,
		"errors":     []any{},
	})
}
