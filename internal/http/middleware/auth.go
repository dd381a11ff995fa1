package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/identity"
)

type contextKey string

const (
	claimsContextKey contextKey = "auth_claims"
	tokenContextKey  contextKey = "auth_token"
)

// ClaimsFromContext returns the token claims stored by Authenticate
func ClaimsFromContext(ctx context.Context) (*identity.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*identity.TokenClaims)
	return claims, ok
}

// TokenFromContext returns the raw bearer token stored by Authenticate.
// Handlers pass it through to the order API so the upstream sees the
// caller's own credentials.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

// Auth handles bearer token authentication for HTTP requests
type Auth struct {
	validator *identity.TokenValidator
	logger    *zap.Logger
}

// NewAuth creates the authentication middleware
func NewAuth(validator *identity.TokenValidator, logger *zap.Logger) *Auth {
	return &Auth{
		validator: validator,
		logger:    logger,
	}
}

// Authenticate requires a valid bearer token and stores its claims and the
// raw token on the request context
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		claims, err := a.validator.ValidateToken(token)
		if err != nil {
			a.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
			return
		}

		a.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user_id", claims.UserID),
			zap.Duration("auth_duration", time.Since(start)),
		)

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin ensures the authenticated caller carries the admin flag
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "Forbidden: no user context", http.StatusForbidden)
			return
		}

		if !claims.IsAdmin {
			a.logger.Warn("admin access denied",
				zap.String("path", r.URL.Path),
				zap.String("user_id", claims.UserID),
			)
			http.Error(w, "Forbidden: admin access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
