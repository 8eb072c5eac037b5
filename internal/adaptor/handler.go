package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"perfume-collection/internal/usecase"
	"perfume-collection/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Perfume      *PerfumeHandler
	Comment      *CommentHandler
	User         *UserHandler
	Notification *NotificationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Perfume:      NewPerfumeHandler(service.Perfume, service.Feed, log),
		Comment:      NewCommentHandler(service.Comment, log),
		User:         NewUserHandler(service.Profile, service.Follow, log),
		Notification: NewNotificationHandler(service.Notification, log),
	}
}

// currentUserID returns the caller's id, or "" for anonymous requests.
func currentUserID(r *http.Request) string {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return ""
	}
	return userID.String()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}

// handleServiceError maps usecase errors to responses. Client errors are
// logged at Warn, everything else at Error with a generic message.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	warn := func(reason string) {
		log.Warn(operation+" failed - "+reason,
			zap.Error(err),
			zap.String("operation", operation))
	}

	switch {
	case errors.Is(err, usecase.ErrNotAuthenticated):
		warn("not authenticated")
		utils.ResponseUnauthorized(w, "Authentication required")

	case errors.Is(err, usecase.ErrForbidden):
		warn("forbidden")
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrNotFound):
		warn("not found")
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInvalidID),
		errors.Is(err, usecase.ErrSelfFollow):
		warn("invalid input")
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrAlreadyFollowing):
		warn("already following")
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrQuotaExceeded):
		warn("quota exceeded")
		utils.ResponseTooManyRequests(w, err.Error())

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
