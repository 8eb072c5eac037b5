package wire

import (
	"perfume-collection/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/perfumes/{id}/comments - Comments with author names, newest first
	r.Get("/api/perfumes/{id}/comments", commentHandler.ListComments)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(g.requireAuth)

		// GET /api/perfumes/{id}/comments/quota - Remaining comments for the caller
		r.Get("/api/perfumes/{id}/comments/quota", commentHandler.GetQuota)

		r.Group(func(r chi.Router) {
			r.Use(g.rateLimit)

			// POST /api/perfumes/{id}/comments - Add comment (quota enforced)
			r.Post("/api/perfumes/{id}/comments", commentHandler.AddComment)

			// DELETE /api/comments/{id} - Delete comment (author only)
			r.Delete("/api/comments/{id}", commentHandler.DeleteComment)
		})
	})
}
