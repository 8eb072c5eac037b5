package repository

import (
	"errors"

	"perfume-collection/pkg/database"

	"go.uber.org/zap"
)

// ErrNoRowsAffected is returned by owner-scoped writes that matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

type Repository struct {
	Profile      ProfileRepository
	Perfume      PerfumeRepository
	Follow       FollowRepository
	Comment      CommentRepository
	Notification NotificationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Profile:      NewProfileRepository(db, log),
		Perfume:      NewPerfumeRepository(db, log),
		Follow:       NewFollowRepository(db, log),
		Comment:      NewCommentRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}
