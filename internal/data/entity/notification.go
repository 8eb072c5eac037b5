package entity

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationFollow         NotificationType = "follow"
	NotificationNewPerfume     NotificationType = "new_perfume"
	NotificationPerfumeDeleted NotificationType = "perfume_deleted"
	NotificationNewComment     NotificationType = "new_comment"
)

type Notification struct {
	BaseSimple
	UserID     uuid.UUID        `db:"user_id"` // recipient
	FromUserID *uuid.UUID       `db:"from_user_id"`
	Type       NotificationType `db:"type"`
	Title      string           `db:"title"`
	Message    string           `db:"message"`
	PerfumeID  *uuid.UUID       `db:"perfume_id"`
	IsRead     bool             `db:"is_read"`
}

// NotificationDetail is a notification joined with the perfume name and
// the source user's profile, as shown in the inbox.
type NotificationDetail struct {
	Notification
	PerfumeName   *string `db:"perfume_name"`
	FromEmail     *string `db:"from_email"`
	FromFullName  *string `db:"from_full_name"`
	FromAvatarURL *string `db:"from_avatar_url"`
}
