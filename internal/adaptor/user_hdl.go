package adaptor

import (
	"net/http"

	"perfume-collection/internal/usecase"
	"perfume-collection/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserHandler struct {
	profile usecase.ProfileService
	follow  usecase.FollowService
	log     *zap.Logger
}

func NewUserHandler(profile usecase.ProfileService, follow usecase.FollowService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		profile: profile,
		follow:  follow,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetMe handles GET /api/me (protected)
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	me, err := h.profile.GetMe(r.Context(), identity)
	if err != nil {
		handleServiceError(h.log, w, err, "get me")
		return
	}

	utils.ResponseSuccess(w, "success", me)
}

// ExploreUsers handles GET /api/users (protected)
func (h *UserHandler) ExploreUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.profile.ExploreUsers(r.Context(), currentUserID(r))
	if err != nil {
		handleServiceError(h.log, w, err, "explore users")
		return
	}

	utils.ResponseSuccess(w, "success", users)
}

// GetUserProfile handles GET /api/users/{id} (protected)
func (h *UserHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.profile.GetUserProfile(r.Context(), chi.URLParam(r, "id"), currentUserID(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get user profile")
		return
	}

	utils.ResponseSuccess(w, "success", user)
}

// GetFollowing handles GET /api/users/me/following (protected)
func (h *UserHandler) GetFollowing(w http.ResponseWriter, r *http.Request) {
	following, err := h.follow.GetFollowing(r.Context(), currentUserID(r))
	if err != nil {
		handleServiceError(h.log, w, err, "get following")
		return
	}

	utils.ResponseSuccess(w, "success", following)
}

// Follow handles POST /api/users/{id}/follow (protected)
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	if err := h.follow.Follow(r.Context(), chi.URLParam(r, "id"), currentUserID(r)); err != nil {
		handleServiceError(h.log, w, err, "follow user")
		return
	}

	utils.ResponseCreated(w, "success", nil)
}

// Unfollow handles DELETE /api/users/{id}/follow (protected)
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.follow.Unfollow(r.Context(), chi.URLParam(r, "id"), currentUserID(r)); err != nil {
		handleServiceError(h.log, w, err, "unfollow user")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
