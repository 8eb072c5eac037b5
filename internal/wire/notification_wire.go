package wire

import (
	"perfume-collection/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireNotification(r chi.Router, notificationHandler *adaptor.NotificationHandler, g guards) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(g.requireAuth)

		// GET /api/notifications - Newest first, paginated
		r.Get("/api/notifications", notificationHandler.GetNotifications)

		// GET /api/notifications/unread-count - Badge counter
		r.Get("/api/notifications/unread-count", notificationHandler.GetUnreadCount)

		// POST /api/notifications/read-all - Mark every notification read
		r.Post("/api/notifications/read-all", notificationHandler.MarkAllRead)

		// POST /api/notifications/{id}/read - Mark one notification read (recipient only)
		r.Post("/api/notifications/{id}/read", notificationHandler.MarkRead)
	})
}
