package adaptor

import (
	"net/http"
	"strings"

	"perfume-collection/internal/dto/request"
	"perfume-collection/internal/usecase"
	"perfume-collection/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PerfumeHandler struct {
	service usecase.PerfumeService
	feed    usecase.FeedService
	log     *zap.Logger
}

func NewPerfumeHandler(service usecase.PerfumeService, feed usecase.FeedService, log *zap.Logger) *PerfumeHandler {
	return &PerfumeHandler{
		service: service,
		feed:    feed,
		log:     log.With(zap.String("handler", "perfume")),
	}
}

// GetFeed handles GET /api/perfumes (optional auth)
func (h *PerfumeHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := &request.FeedRequest{
		View:          strings.ToLower(strings.TrimSpace(query.Get("view"))),
		UserID:        strings.TrimSpace(query.Get("user")),
		Category:      query.Get("category"),
		Search:        query.Get("search"),
		FavoritesOnly: utils.ParseBool(query.Get("favorites")),
		SortBy:        strings.ToLower(strings.TrimSpace(query.Get("sort"))),
		SortDirection: strings.ToLower(strings.TrimSpace(query.Get("dir"))),
	}

	perfumes, err := h.feed.GetFeed(r.Context(), currentUserID(r), req)
	if err != nil {
		handleServiceError(h.log, w, err, "get feed")
		return
	}

	utils.ResponseSuccess(w, "success", perfumes)
}

// GetFavorites handles GET /api/perfumes/favorites (protected)
func (h *PerfumeHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	perfumes, err := h.feed.GetFavorites(r.Context(), currentUserID(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get favorites")
		return
	}

	utils.ResponseSuccess(w, "success", perfumes)
}

// GetCategoryCounts handles GET /api/perfumes/categories (optional auth)
func (h *PerfumeHandler) GetCategoryCounts(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(r.URL.Query().Get("user"))

	counts, err := h.feed.GetCategoryCounts(r.Context(), currentUserID(r), ownerID)
	if err != nil {
		handleServiceError(h.log, w, err, "get category counts")
		return
	}

	utils.ResponseSuccess(w, "success", counts)
}

// GetPerfume handles GET /api/perfumes/{id} (public)
func (h *PerfumeHandler) GetPerfume(w http.ResponseWriter, r *http.Request) {
	perfume, err := h.service.GetPerfume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get perfume")
		return
	}

	utils.ResponseSuccess(w, "success", perfume)
}

// CreatePerfume handles POST /api/perfumes (protected)
func (h *PerfumeHandler) CreatePerfume(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePerfumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	perfume, err := h.service.CreatePerfume(r.Context(), currentUserID(r), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create perfume")
		return
	}

	utils.ResponseCreated(w, "success", perfume)
}

// UpdatePerfume handles PATCH /api/perfumes/{id} (owner only)
func (h *PerfumeHandler) UpdatePerfume(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePerfumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	perfume, err := h.service.UpdatePerfume(r.Context(), chi.URLParam(r, "id"), currentUserID(r), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update perfume")
		return
	}

	utils.ResponseSuccess(w, "success", perfume)
}

// DeletePerfume handles DELETE /api/perfumes/{id} (owner only)
func (h *PerfumeHandler) DeletePerfume(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePerfume(r.Context(), chi.URLParam(r, "id"), currentUserID(r)); err != nil {
		handleServiceError(h.log, w, err, "delete perfume")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ToggleFavorite handles POST /api/perfumes/{id}/favorite (owner only)
func (h *PerfumeHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ToggleFavorite(r.Context(), chi.URLParam(r, "id"), currentUserID(r))
	if err != nil {
		handleServiceError(h.log, w, err, "toggle favorite")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}
