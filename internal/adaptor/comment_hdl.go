package adaptor

import (
	"net/http"

	"perfume-collection/internal/dto/request"
	"perfume-collection/internal/usecase"
	"perfume-collection/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// ListComments handles GET /api/perfumes/{id}/comments (public)
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// AddComment handles POST /api/perfumes/{id}/comments (protected)
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	comment, err := h.service.AddComment(r.Context(), chi.URLParam(r, "id"), currentUserID(r), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add comment")
		return
	}

	utils.ResponseCreated(w, "success", comment)
}

// GetQuota handles GET /api/perfumes/{id}/comments/quota (protected)
func (h *CommentHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	quota, err := h.service.GetQuota(r.Context(), chi.URLParam(r, "id"), currentUserID(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get comment quota")
		return
	}

	utils.ResponseSuccess(w, "success", quota)
}

// DeleteComment handles DELETE /api/comments/{id} (author only)
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteComment(r.Context(), chi.URLParam(r, "id"), currentUserID(r)); err != nil {
		handleServiceError(h.log, w, err, "delete comment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
