package wire

import (
	"perfume-collection/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g guards) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(g.requireAuth)

		// GET /api/me - Current profile, provisioned from the token on first call
		r.Get("/api/me", userHandler.GetMe)

		// GET /api/users - Explore other collectors
		r.Get("/api/users", userHandler.ExploreUsers)

		// GET /api/users/me/following - Ids the caller follows
		r.Get("/api/users/me/following", userHandler.GetFollowing)

		// GET /api/users/{id} - Public profile with follow state
		r.Get("/api/users/{id}", userHandler.GetUserProfile)

		r.Group(func(r chi.Router) {
			r.Use(g.rateLimit)

			// POST /api/users/{id}/follow - Follow user
			r.Post("/api/users/{id}/follow", userHandler.Follow)

			// DELETE /api/users/{id}/follow - Unfollow user
			r.Delete("/api/users/{id}/follow", userHandler.Unfollow)
		})
	})
}
