package middleware

import (
	"context"
	"net/http"

	"perfume-collection/pkg/utils"

	"go.uber.org/zap"
)

// ProfileProvisioner creates the local profile row of an authenticated user.
type ProfileProvisioner interface {
	EnsureProfile(ctx context.Context, identity utils.Identity) error
}

// ProvisionProfile makes sure every authenticated caller has a profile
// before any handler runs. Failures are logged and the request continues;
// handlers report their own store errors.
func ProvisionProfile(provisioner ProfileProvisioner, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if identity, ok := utils.GetIdentityFromContext(r.Context()); ok {
				if err := provisioner.EnsureProfile(r.Context(), identity); err != nil {
					logger.Error("Failed to provision profile",
						zap.Error(err),
						zap.String("user_id", identity.UserID.String()))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
