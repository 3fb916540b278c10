package http

import (
	"context"

	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/security"
)

type contextKey int

const (
	claimsKey contextKey = iota
	rawTokenKey
)

func withClaims(ctx context.Context, claims *security.UserClaims, raw string) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return context.WithValue(ctx, rawTokenKey, raw)
}

// ClaimsFromContext returns the validated token claims, or nil for anonymous
// requests.
func ClaimsFromContext(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsKey).(*security.UserClaims)
	return claims
}

// ActorFromContext returns the caller; the zero Actor means anonymous.
func ActorFromContext(ctx context.Context) domain.Actor {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return domain.Actor{}
	}
	return domain.Actor{UserID: claims.UserID, Role: claims.Role}
}

func rawTokenFromContext(ctx context.Context) string {
	raw, _ := ctx.Value(rawTokenKey).(string)
	return raw
}
