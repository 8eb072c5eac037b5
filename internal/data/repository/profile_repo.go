package repository

import (
	"context"
	"errors"
	"fmt"

	"perfume-collection/internal/data/entity"
	"perfume-collection/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error)
	// Upsert provisions the profile of a freshly authenticated user and keeps
	// email, name and avatar in sync with the identity provider.
	Upsert(ctx context.Context, profile *entity.Profile) error
	// FindSummariesExcept lists every profile other than userID together with
	// its perfume count.
	FindSummariesExcept(ctx context.Context, userID uuid.UUID) ([]*entity.ProfileSummary, error)
}

type profileRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProfileRepository(db database.PgxIface, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT id, email, full_name, avatar_url, created_at
		FROM profiles
		WHERE id = $1
	`

	var profile entity.Profile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find profile %s: %w", id.String(), err)
	}

	return &profile, nil
}

func (r *profileRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, email, full_name, avatar_url, created_at
		FROM profiles
		WHERE id = ANY($1)
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find profiles by IDs",
			zap.Error(err),
			zap.Int("count", len(ids)),
		)
		return nil, fmt.Errorf("find profiles by IDs: %w", err)
	}
	defer rows.Close()

	var profiles []*entity.Profile
	for rows.Next() {
		var p entity.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.CreatedAt); err != nil {
			r.log.Error("Failed to scan profile row", zap.Error(err))
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile rows: %w", err)
	}

	return profiles, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, email, full_name, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email,
		    full_name = COALESCE(EXCLUDED.full_name, profiles.full_name),
		    avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url)
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.AvatarURL,
		profile.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to upsert profile",
			zap.Error(err),
			zap.String("user_id", profile.ID.String()),
		)
		return fmt.Errorf("upsert profile %s: %w", profile.ID.String(), err)
	}

	return nil
}

func (r *profileRepository) FindSummariesExcept(ctx context.Context, userID uuid.UUID) ([]*entity.ProfileSummary, error) {
	query := `
		SELECT p.id, p.email, p.full_name, p.avatar_url, p.created_at,
		       COUNT(pf.id) AS perfume_count
		FROM profiles p
		LEFT JOIN perfumes pf ON pf.user_id = p.id
		WHERE p.id <> $1
		GROUP BY p.id
		ORDER BY p.id
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list profiles",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*entity.ProfileSummary
	for rows.Next() {
		var p entity.ProfileSummary
		if err := rows.Scan(
			&p.ID,
			&p.Email,
			&p.FullName,
			&p.AvatarURL,
			&p.CreatedAt,
			&p.PerfumeCount,
		); err != nil {
			r.log.Error("Failed to scan profile row", zap.Error(err))
			return nil, fmt.Errorf("scan profile row: %w", err)
		}
		profiles = append(profiles, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profile rows: %w", err)
	}

	return profiles, nil
}
