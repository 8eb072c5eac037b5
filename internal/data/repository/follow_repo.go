package repository

import (
	"context"
	"fmt"

	"perfume-collection/internal/data/entity"
	"perfume-collection/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FollowRepository interface {
	// Create inserts the edge and reports false when it already existed.
	Create(ctx context.Context, follow *entity.Follow) (bool, error)
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)

	FindFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	FindFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type followRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFollowRepository(db database.PgxIface, log *zap.Logger) FollowRepository {
	return &followRepository{
		db:  db,
		log: log.With(zap.String("repository", "follow")),
	}
}

func (r *followRepository) Create(ctx context.Context, follow *entity.Follow) (bool, error) {
	query := `
		INSERT INTO user_follows (id, follower_id, following_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`

	result, err := r.db.Exec(ctx, query,
		follow.ID,
		follow.FollowerID,
		follow.FollowingID,
		follow.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create follow",
			zap.Error(err),
			zap.String("follower_id", follow.FollowerID.String()),
			zap.String("following_id", follow.FollowingID.String()),
		)
		return false, fmt.Errorf("create follow %s -> %s: %w",
			follow.FollowerID.String(), follow.FollowingID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	query := `DELETE FROM user_follows WHERE follower_id = $1 AND following_id = $2`

	_, err := r.db.Exec(ctx, query, followerID, followingID)
	if err != nil {
		r.log.Error("Failed to delete follow",
			zap.Error(err),
			zap.String("follower_id", followerID.String()),
			zap.String("following_id", followingID.String()),
		)
		return fmt.Errorf("delete follow %s -> %s: %w", followerID.String(), followingID.String(), err)
	}

	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_follows WHERE follower_id = $1 AND following_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, followerID, followingID).Scan(&exists); err != nil {
		r.log.Error("Failed to check follow",
			zap.Error(err),
			zap.String("follower_id", followerID.String()),
			zap.String("following_id", followingID.String()),
		)
		return false, fmt.Errorf("check follow %s -> %s: %w", followerID.String(), followingID.String(), err)
	}

	return exists, nil
}

func (r *followRepository) FindFollowerIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT follower_id FROM user_follows WHERE following_id = $1 ORDER BY created_at, follower_id`
	return r.findIDs(ctx, query, userID, "followers")
}

func (r *followRepository) FindFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT following_id FROM user_follows WHERE follower_id = $1 ORDER BY created_at, following_id`
	return r.findIDs(ctx, query, userID, "following")
}

func (r *followRepository) findIDs(ctx context.Context, query string, userID uuid.UUID, what string) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list follow edges",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("direction", what),
		)
		return nil, fmt.Errorf("find %s of user %s: %w", what, userID.String(), err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			r.log.Error("Failed to scan follow row", zap.Error(err))
			return nil, fmt.Errorf("scan follow row: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate follow rows: %w", err)
	}

	return ids, nil
}
