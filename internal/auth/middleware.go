package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
)

// AnonymousOwner owns everything created without a signed-in user.
const AnonymousOwner = "anonymous"

type ctxKey string

const claimsKey ctxKey = "user_claims"

var ErrNoClaims = errors.New("no user claims in context")

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("jwt"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return config.WithUserID(ctx, claims.UserID)
}

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := config.WithContext(r.Context())

		tokenStr := tokenFromRequest(r)
		if tokenStr == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := ValidateJWT(tokenStr)
		if err != nil {
			log.WithError(err).Warn("Invalid JWT")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tokenStr := tokenFromRequest(r); tokenStr != "" {
			claims, err := ValidateJWT(tokenStr)
			if err == nil {
				r = r.WithContext(withClaims(r.Context(), claims))
			} else {
				config.WithContext(r.Context()).WithError(err).Debug("Ignoring invalid JWT")
			}
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	if !ok || claims == nil {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// OwnerFromContext returns the signed-in user id or AnonymousOwner.
func OwnerFromContext(ctx context.Context) string {
	claims, err := GetUserClaimsFromContext(ctx)
	if err != nil || claims.UserID == "" {
		return AnonymousOwner
	}
	return claims.UserID
}

// ContextWithOwner is used by tests and internal callers that act for a user.
func ContextWithOwner(ctx context.Context, userID string) context.Context {
	return withClaims(ctx, &Claims{UserID: userID})
}
