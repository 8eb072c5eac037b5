package entity

import "github.com/google/uuid"

type Comment struct {
	Base
	PerfumeID uuid.UUID `db:"perfume_id"`
	UserID    uuid.UUID `db:"user_id"`
	Comment   string    `db:"comment"`
}

// CommentWithAuthor is a comment joined with its author's profile fields.
type CommentWithAuthor struct {
	Comment
	AuthorEmail     *string `db:"email"`
	AuthorFullName  *string `db:"full_name"`
	AuthorAvatarURL *string `db:"avatar_url"`
}
