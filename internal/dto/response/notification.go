package response

import (
	"time"

	"perfume-collection/internal/data/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	IsRead       bool      `json:"is_read"`
	PerfumeID    *string   `json:"perfume_id,omitempty"`
	PerfumeName  *string   `json:"perfume_name,omitempty"`
	FromUserID   *string   `json:"from_user_id,omitempty"`
	FromUserName *string   `json:"from_user_name,omitempty"`
	FromAvatar   *string   `json:"from_user_avatar,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func NotificationToResponse(n *entity.NotificationDetail) NotificationResponse {
	resp := NotificationResponse{
		ID:          n.ID.String(),
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		PerfumeID:   uuidString(n.PerfumeID),
		PerfumeName: n.PerfumeName,
		FromUserID:  uuidString(n.FromUserID),
		FromAvatar:  n.FromAvatarURL,
		CreatedAt:   n.CreatedAt,
	}

	if n.FromUserID != nil {
		from := &entity.Profile{ID: *n.FromUserID, FullName: n.FromFullName}
		if n.FromEmail != nil {
			from.Email = *n.FromEmail
		}
		name := from.DisplayName()
		resp.FromUserName = &name
	}

	return resp
}

func NotificationsToResponse(notifications []*entity.NotificationDetail) []NotificationResponse {
	result := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, NotificationToResponse(n))
	}
	return result
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
