package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"perfume-collection/internal/data/entity"
	"perfume-collection/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// PerfumeFilter selects and orders perfumes for a feed. Exactly one of
// OwnerID or FollowerID scopes the result.
type PerfumeFilter struct {
	OwnerID       *uuid.UUID // perfumes of this user
	FollowerID    *uuid.UUID // perfumes of everyone this user follows
	Category      string     // "" or "All" disables the filter
	Search        string
	FavoritesOnly bool
	SortBy        string // created_at, name, price, rating
	SortDirection string // asc, desc
	Limit         int
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"name":       "name",
	"price":      "price",
	"rating":     "rating",
}

type PerfumeRepository interface {
	Create(ctx context.Context, perfume *entity.Perfume) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Perfume, error)
	FindAll(ctx context.Context, filter PerfumeFilter) ([]*entity.Perfume, error)
	FindCategoriesByOwner(ctx context.Context, ownerID uuid.UUID) ([][]string, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// Owner-scoped mutations: every write filters by id AND user_id.
	Update(ctx context.Context, perfume *entity.Perfume) error
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (*entity.Perfume, error)
	ToggleFavorite(ctx context.Context, id, ownerID uuid.UUID) (*bool, error)
}

type perfumeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPerfumeRepository(db database.PgxIface, log *zap.Logger) PerfumeRepository {
	return &perfumeRepository{
		db:  db,
		log: log.With(zap.String("repository", "perfume")),
	}
}

const perfumeColumns = `id, user_id, name, brand, price, rating, description,
		       notes, categories, image_url, is_favorite, created_at, updated_at`

func scanPerfume(row pgx.Row) (*entity.Perfume, error) {
	var p entity.Perfume
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Brand,
		&p.Price,
		&p.Rating,
		&p.Description,
		&p.Notes,
		&p.Categories,
		&p.ImageURL,
		&p.IsFavorite,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *perfumeRepository) Create(ctx context.Context, perfume *entity.Perfume) error {
	query := `
		INSERT INTO perfumes (id, user_id, name, brand, price, rating, description,
		                      notes, categories, image_url, is_favorite, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		perfume.ID,
		perfume.UserID,
		perfume.Name,
		perfume.Brand,
		perfume.Price,
		perfume.Rating,
		perfume.Description,
		nonNil(perfume.Notes),
		nonNil(perfume.Categories),
		perfume.ImageURL,
		perfume.IsFavorite,
		perfume.CreatedAt,
		perfume.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create perfume",
			zap.Error(err),
			zap.String("user_id", perfume.UserID.String()),
			zap.String("name", perfume.Name),
		)
		return fmt.Errorf("create perfume %q: %w", perfume.Name, err)
	}

	return nil
}

func (r *perfumeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Perfume, error) {
	query := `SELECT ` + perfumeColumns + ` FROM perfumes WHERE id = $1`

	perfume, err := scanPerfume(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find perfume by ID",
			zap.Error(err),
			zap.String("perfume_id", id.String()),
		)
		return nil, fmt.Errorf("find perfume %s: %w", id.String(), err)
	}

	return perfume, nil
}

func (r *perfumeRepository) FindAll(ctx context.Context, filter PerfumeFilter) ([]*entity.Perfume, error) {
	query, args := buildPerfumeQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find perfumes",
			zap.Error(err),
			zap.String("category", filter.Category),
			zap.String("search", filter.Search),
			zap.String("sort_by", filter.SortBy),
		)
		return nil, fmt.Errorf("find perfumes: %w", err)
	}
	defer rows.Close()

	var perfumes []*entity.Perfume
	for rows.Next() {
		perfume, err := scanPerfume(rows)
		if err != nil {
			r.log.Error("Failed to scan perfume row", zap.Error(err))
			return nil, fmt.Errorf("scan perfume row: %w", err)
		}
		perfumes = append(perfumes, perfume)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate perfume rows: %w", err)
	}

	r.log.Debug("Perfumes found", zap.Int("count", len(perfumes)))

	return perfumes, nil
}

// buildPerfumeQuery translates a filter into SQL. The id column is always
// the last ORDER BY key so equal primary keys come back in a stable order.
func buildPerfumeQuery(filter PerfumeFilter) (string, []any) {
	var qb strings.Builder
	qb.WriteString(`SELECT ` + perfumeColumns + ` FROM perfumes WHERE TRUE`)

	args := []any{}
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerID != nil {
		qb.WriteString(" AND user_id = " + next(*filter.OwnerID))
	}

	if filter.FollowerID != nil {
		qb.WriteString(" AND user_id IN (SELECT following_id FROM user_follows WHERE follower_id = " +
			next(*filter.FollowerID) + ")")
	}

	if filter.Category != "" && filter.Category != entity.CategoryAll {
		qb.WriteString(" AND " + next(filter.Category) + " = ANY(categories)")
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		p := next("%" + escapeLike(search) + "%")
		qb.WriteString(" AND (name ILIKE " + p +
			" OR brand ILIKE " + p +
			" OR EXISTS (SELECT 1 FROM unnest(notes) AS note WHERE note ILIKE " + p + "))")
	}

	if filter.FavoritesOnly {
		qb.WriteString(" AND is_favorite = TRUE")
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortDirection, "asc") {
		direction = "ASC"
	}
	qb.WriteString(fmt.Sprintf(" ORDER BY %s %s, id ASC", column, direction))

	if filter.Limit > 0 {
		qb.WriteString(" LIMIT " + next(filter.Limit))
	}

	return qb.String(), args
}

// escapeLike makes user input literal inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *perfumeRepository) FindCategoriesByOwner(ctx context.Context, ownerID uuid.UUID) ([][]string, error) {
	query := `SELECT categories FROM perfumes WHERE user_id = $1`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to load perfume categories",
			zap.Error(err),
			zap.String("user_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find categories of user %s: %w", ownerID.String(), err)
	}
	defer rows.Close()

	var result [][]string
	for rows.Next() {
		var categories []string
		if err := rows.Scan(&categories); err != nil {
			return nil, fmt.Errorf("scan categories row: %w", err)
		}
		result = append(result, categories)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories rows: %w", err)
	}

	return result, nil
}

func (r *perfumeRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM perfumes WHERE user_id = $1`, ownerID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count perfumes",
			zap.Error(err),
			zap.String("user_id", ownerID.String()),
		)
		return 0, fmt.Errorf("count perfumes of user %s: %w", ownerID.String(), err)
	}
	return total, nil
}

func (r *perfumeRepository) Update(ctx context.Context, perfume *entity.Perfume) error {
	query := `
		UPDATE perfumes
		SET name = $3, brand = $4, price = $5, rating = $6, description = $7,
		    notes = $8, categories = $9, image_url = $10, is_favorite = $11,
		    updated_at = $12
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query,
		perfume.ID,
		perfume.UserID,
		perfume.Name,
		perfume.Brand,
		perfume.Price,
		perfume.Rating,
		perfume.Description,
		nonNil(perfume.Notes),
		nonNil(perfume.Categories),
		perfume.ImageURL,
		perfume.IsFavorite,
		perfume.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update perfume",
			zap.Error(err),
			zap.String("perfume_id", perfume.ID.String()),
		)
		return fmt.Errorf("update perfume %s: %w", perfume.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("perfume %s: %w", perfume.ID.String(), ErrNoRowsAffected)
	}

	return nil
}

// DeleteOwned removes the perfume and returns the deleted row, or nil when
// no perfume with that id belongs to ownerID.
func (r *perfumeRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) (*entity.Perfume, error) {
	query := `DELETE FROM perfumes WHERE id = $1 AND user_id = $2 RETURNING ` + perfumeColumns

	perfume, err := scanPerfume(r.db.QueryRow(ctx, query, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to delete perfume",
			zap.Error(err),
			zap.String("perfume_id", id.String()),
		)
		return nil, fmt.Errorf("delete perfume %s: %w", id.String(), err)
	}

	r.log.Info("Perfume deleted", zap.String("perfume_id", id.String()))
	return perfume, nil
}

// ToggleFavorite flips the flag in a single statement and returns the new
// value, or nil when no perfume with that id belongs to ownerID.
func (r *perfumeRepository) ToggleFavorite(ctx context.Context, id, ownerID uuid.UUID) (*bool, error) {
	query := `
		UPDATE perfumes
		SET is_favorite = NOT is_favorite, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING is_favorite
	`

	var isFavorite bool
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(&isFavorite)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to toggle favorite",
			zap.Error(err),
			zap.String("perfume_id", id.String()),
		)
		return nil, fmt.Errorf("toggle favorite %s: %w", id.String(), err)
	}

	return &isFavorite, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
