// Package auth verifies operator identity for mutating endpoints. Tokens
// are HMAC-signed JWTs carrying the operator email; the rest of the
// system treats that email as an opaque string stamped on administration
// records.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joelgonn/enfermaria-api/logging"
)

type contextKey string

const operatorKey contextKey = "operator"

// Claims carries the operator email besides the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Verifier validates bearer tokens and injects the operator identity into
// the request context.
type Verifier struct {
	secret []byte
	// devFallback lets local environments run without tokens; the
	// operator is then recorded as "dev@local".
	devFallback bool
}

// NewVerifier creates a Verifier. With an empty secret (dev/test only),
// requests without a token are attributed to a fixed dev operator.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret:      []byte(secret),
		devFallback: secret == "",
	}
}

// OperatorFromContext returns the authenticated operator email, or the
// empty string when the request was not authenticated.
func OperatorFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(operatorKey).(string); ok {
		return op
	}
	return ""
}

// ContextWithOperator returns a context carrying the operator email.
// Exported for handler tests.
func ContextWithOperator(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, operatorKey, email)
}

// Middleware rejects mutating requests without a valid bearer token and
// stores the operator email in the context for the handlers.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, err := v.operatorFor(r)
		if err != nil {
			logging.Warn("Rejected unauthenticated request", "path", r.URL.Path, "error", err)
			w.Header().Set("WWW-Authenticate", `Bearer realm="enfermaria"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithOperator(r.Context(), email)))
	})
}

func (v *Verifier) operatorFor(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		if v.devFallback {
			return "dev@local", nil
		}
		return "", fmt.Errorf("missing Authorization header")
	}

	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", fmt.Errorf("authorization header is not a bearer token")
	}

	return v.ParseToken(tokenString)
}

// ParseToken validates a token string and returns the operator email.
func (v *Verifier) ParseToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	email := claims.Email
	if email == "" {
		email = claims.Subject
	}
	if email == "" {
		return "", fmt.Errorf("token carries no operator identity")
	}
	return email, nil
}
