package wire

import (
	"perfume-collection/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePerfume(r chi.Router, perfumeHandler *adaptor.PerfumeHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/perfumes - Feed, personalised when a token is sent
	r.Get("/api/perfumes", perfumeHandler.GetFeed)

	// GET /api/perfumes/categories - Category counts (defaults to current user)
	r.Get("/api/perfumes/categories", perfumeHandler.GetCategoryCounts)

	// GET /api/perfumes/{id} - Perfume detail
	r.Get("/api/perfumes/{id}", perfumeHandler.GetPerfume)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(g.requireAuth)

		// GET /api/perfumes/favorites - Favourites of the current user
		r.Get("/api/perfumes/favorites", perfumeHandler.GetFavorites)

		r.Group(func(r chi.Router) {
			r.Use(g.rateLimit)

			// POST /api/perfumes - Add perfume to own collection
			r.Post("/api/perfumes", perfumeHandler.CreatePerfume)

			// PATCH /api/perfumes/{id} - Update perfume (owner only)
			r.Patch("/api/perfumes/{id}", perfumeHandler.UpdatePerfume)

			// DELETE /api/perfumes/{id} - Delete perfume (owner only)
			r.Delete("/api/perfumes/{id}", perfumeHandler.DeletePerfume)

			// POST /api/perfumes/{id}/favorite - Toggle favourite flag (owner only)
			r.Post("/api/perfumes/{id}/favorite", perfumeHandler.ToggleFavorite)
		})
	})
}
