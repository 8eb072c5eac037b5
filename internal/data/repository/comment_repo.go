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

type CommentRepository interface {
	// CreateWithinQuota inserts the comment unless its author already has
	// quota comments on the perfume. It returns the count seen before the
	// insert and whether the insert happened.
	CreateWithinQuota(ctx context.Context, comment *entity.Comment, quota int) (int, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error)
	FindByPerfume(ctx context.Context, perfumeID uuid.UUID) ([]*entity.CommentWithAuthor, error)
	CountByUserAndPerfume(ctx context.Context, userID, perfumeID uuid.UUID) (int, error)
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error)
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

const countCommentsQuery = `
	SELECT COUNT(*) FROM perfume_comments WHERE user_id = $1 AND perfume_id = $2
`

func (r *commentRepository) CreateWithinQuota(ctx context.Context, comment *entity.Comment, quota int) (int, bool, error) {
	var (
		count    int
		inserted bool
	)

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		// Serializes writers of the same (user, perfume) pair until commit.
		lockKey := comment.UserID.String() + ":" + comment.PerfumeID.String()
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
			return fmt.Errorf("acquire comment quota lock: %w", err)
		}

		if err := tx.QueryRow(ctx, countCommentsQuery, comment.UserID, comment.PerfumeID).Scan(&count); err != nil {
			return fmt.Errorf("count comments: %w", err)
		}
		if count >= quota {
			return nil
		}

		query := `
			INSERT INTO perfume_comments (id, perfume_id, user_id, comment, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.Exec(ctx, query,
			comment.ID,
			comment.PerfumeID,
			comment.UserID,
			comment.Comment,
			comment.CreatedAt,
			comment.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}

		inserted = true
		return nil
	})

	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("user_id", comment.UserID.String()),
			zap.String("perfume_id", comment.PerfumeID.String()),
		)
		return count, false, fmt.Errorf("create comment on perfume %s: %w", comment.PerfumeID.String(), err)
	}

	return count, inserted, nil
}

func (r *commentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Comment, error) {
	query := `
		SELECT id, perfume_id, user_id, comment, created_at, updated_at
		FROM perfume_comments
		WHERE id = $1
	`

	var c entity.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.PerfumeID,
		&c.UserID,
		&c.Comment,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment by ID",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return nil, fmt.Errorf("find comment %s: %w", id.String(), err)
	}

	return &c, nil
}

func (r *commentRepository) FindByPerfume(ctx context.Context, perfumeID uuid.UUID) ([]*entity.CommentWithAuthor, error) {
	query := `
		SELECT c.id, c.perfume_id, c.user_id, c.comment, c.created_at, c.updated_at,
		       p.email, p.full_name, p.avatar_url
		FROM perfume_comments c
		LEFT JOIN profiles p ON p.id = c.user_id
		WHERE c.perfume_id = $1
		ORDER BY c.created_at DESC, c.id ASC
	`

	rows, err := r.db.Query(ctx, query, perfumeID)
	if err != nil {
		r.log.Error("Failed to find comments by perfume",
			zap.Error(err),
			zap.String("perfume_id", perfumeID.String()),
		)
		return nil, fmt.Errorf("find comments of perfume %s: %w", perfumeID.String(), err)
	}
	defer rows.Close()

	var comments []*entity.CommentWithAuthor
	for rows.Next() {
		var c entity.CommentWithAuthor
		if err := rows.Scan(
			&c.ID,
			&c.PerfumeID,
			&c.UserID,
			&c.Comment.Comment,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.AuthorEmail,
			&c.AuthorFullName,
			&c.AuthorAvatarURL,
		); err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comment rows: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) CountByUserAndPerfume(ctx context.Context, userID, perfumeID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, countCommentsQuery, userID, perfumeID).Scan(&count); err != nil {
		r.log.Error("Failed to count comments",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("perfume_id", perfumeID.String()),
		)
		return 0, fmt.Errorf("count comments of user %s: %w", userID.String(), err)
	}
	return count, nil
}

func (r *commentRepository) DeleteOwned(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM perfume_comments WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.String("comment_id", id.String()),
		)
		return false, fmt.Errorf("delete comment %s: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}
