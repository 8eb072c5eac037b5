package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	FullName  *string   `db:"full_name"`
	AvatarURL *string   `db:"avatar_url"`
	CreatedAt time.Time `db:"created_at"`
}

const anonymousDisplayName = "Użytkownik"

// DisplayName returns the full name, falling back to the local part of the email.
func (p *Profile) DisplayName() string {
	if p == nil {
		return anonymousDisplayName
	}
	if p.FullName != nil && strings.TrimSpace(*p.FullName) != "" {
		return *p.FullName
	}
	if local, _, ok := strings.Cut(p.Email, "@"); ok && local != "" {
		return local
	}
	if p.Email != "" {
		return p.Email
	}
	return anonymousDisplayName
}

// ProfileSummary is a profile with its collection size, used by the explore view.
type ProfileSummary struct {
	Profile
	PerfumeCount int64 `db:"perfume_count"`
}
