package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const IdentityKey contextKey = "identity"

// Identity is the authenticated caller as reported by the identity provider.
// It lives on the request context for the duration of one request.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	Name      *string
	AvatarURL *string
}

func SetIdentityContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(Identity)
	if !ok || identity.UserID == uuid.Nil {
		return Identity{}, false
	}
	return identity, true
}

// GetUserIDFromContext returns the caller's user ID, or false for anonymous requests.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	identity, ok := GetIdentityFromContext(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return identity.UserID, true
}
