package response

import (
	"time"

	"perfume-collection/internal/data/entity"
)

type ProfileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    *string   `json:"full_name,omitempty"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserResponse is a profile as seen by another user.
type UserResponse struct {
	ProfileResponse
	PerfumeCount int64 `json:"perfume_count"`
	IsFollowing  bool  `json:"is_following"`
}

type FollowingResponse struct {
	FollowingIDs []string          `json:"following_ids"`
	Users        []ProfileResponse `json:"users"`
}

func ProfileToResponse(p *entity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID.String(),
		Email:       p.Email,
		FullName:    p.FullName,
		DisplayName: p.DisplayName(),
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
	}
}
