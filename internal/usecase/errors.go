package usecase

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors returned (wrapped) by every service. Handlers map them
// to HTTP status codes with errors.Is.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrValidation       = errors.New("validation failed")
	ErrQuotaExceeded    = errors.New("comment quota exceeded")
	ErrNotFound         = errors.New("not found")
	ErrAlreadyFollowing = errors.New("already following")
	ErrSelfFollow       = errors.New("cannot follow yourself")
	ErrInvalidID        = errors.New("invalid id")
)

// actorID resolves the acting user. An empty id means an anonymous request.
func actorID(userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, ErrNotAuthenticated
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user %q", ErrNotAuthenticated, userID)
	}
	return id, nil
}

func parseID(kind, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q", ErrInvalidID, kind, value)
	}
	return id, nil
}
