package response

import (
	"time"

	"perfume-collection/internal/data/entity"
)

type CommentResponse struct {
	ID         string    `json:"id"`
	PerfumeID  string    `json:"perfume_id"`
	UserID     string    `json:"user_id"`
	Comment    string    `json:"comment"`
	AuthorName string    `json:"author_name"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CommentQuotaResponse struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

func CommentToResponse(c *entity.CommentWithAuthor) CommentResponse {
	author := &entity.Profile{ID: c.UserID, FullName: c.AuthorFullName, AvatarURL: c.AuthorAvatarURL}
	if c.AuthorEmail != nil {
		author.Email = *c.AuthorEmail
	}

	return CommentResponse{
		ID:         c.ID.String(),
		PerfumeID:  c.PerfumeID.String(),
		UserID:     c.UserID.String(),
		Comment:    c.Comment.Comment,
		AuthorName: author.DisplayName(),
		AvatarURL:  c.AuthorAvatarURL,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func CommentsToResponse(comments []*entity.CommentWithAuthor) []CommentResponse {
	result := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		result = append(result, CommentToResponse(c))
	}
	return result
}
