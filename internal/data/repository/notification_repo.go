package repository

import (
	"context"
	"fmt"
	"strings"

	"perfume-collection/internal/data/entity"
	"perfume-collection/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type NotificationRepository interface {
	// CreateBatch inserts all notifications in one transaction, split into
	// statements of at most notificationBatchSize rows.
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.NotificationDetail, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)

	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewNotificationRepository(db database.PgxIface, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

const (
	notificationInsertColumns = 9
	// Postgres accepts at most 65535 bind parameters per statement.
	notificationBatchSize = 1000
)

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	var rows int64
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, chunk := range chunkNotifications(notifications, notificationBatchSize) {
			query, args := buildNotificationInsert(chunk)
			result, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return err
			}
			rows += result.RowsAffected()
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to create notifications",
			zap.Error(err),
			zap.Int("count", len(notifications)),
			zap.String("type", string(notifications[0].Type)),
		)
		return fmt.Errorf("create %d notifications: %w", len(notifications), err)
	}

	r.log.Debug("Notifications created", zap.Int64("rows", rows))
	return nil
}

func chunkNotifications(notifications []*entity.Notification, size int) [][]*entity.Notification {
	chunks := make([][]*entity.Notification, 0, (len(notifications)+size-1)/size)
	for start := 0; start < len(notifications); start += size {
		end := min(start+size, len(notifications))
		chunks = append(chunks, notifications[start:end])
	}
	return chunks
}

func buildNotificationInsert(notifications []*entity.Notification) (string, []any) {
	var qb strings.Builder
	qb.WriteString(`INSERT INTO notifications
		(id, user_id, from_user_id, type, title, message, perfume_id, is_read, created_at)
		VALUES `)

	args := make([]any, 0, len(notifications)*notificationInsertColumns)
	for i, n := range notifications {
		if i > 0 {
			qb.WriteString(", ")
		}
		base := i * notificationInsertColumns
		qb.WriteString("(")
		for c := 1; c <= notificationInsertColumns; c++ {
			if c > 1 {
				qb.WriteString(", ")
			}
			fmt.Fprintf(&qb, "$%d", base+c)
		}
		qb.WriteString(")")

		args = append(args,
			n.ID,
			n.UserID,
			n.FromUserID,
			string(n.Type),
			n.Title,
			n.Message,
			n.PerfumeID,
			n.IsRead,
			n.CreatedAt,
		)
	}

	return qb.String(), args
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.NotificationDetail, error) {
	query := `
		SELECT n.id, n.user_id, n.from_user_id, n.type, n.title, n.message,
		       n.perfume_id, n.is_read, n.created_at,
		       pf.name, fp.email, fp.full_name, fp.avatar_url
		FROM notifications n
		LEFT JOIN perfumes pf ON pf.id = n.perfume_id
		LEFT JOIN profiles fp ON fp.id = n.from_user_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC, n.id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find notifications",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find notifications of user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var notifications []*entity.NotificationDetail
	for rows.Next() {
		var (
			n    entity.NotificationDetail
			kind string
		)
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.FromUserID,
			&kind,
			&n.Title,
			&n.Message,
			&n.PerfumeID,
			&n.IsRead,
			&n.CreatedAt,
			&n.PerfumeName,
			&n.FromEmail,
			&n.FromFullName,
			&n.FromAvatarURL,
		); err != nil {
			r.log.Error("Failed to scan notification row", zap.Error(err))
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		n.Type = entity.NotificationType(kind)
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID)
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
}

func (r *notificationRepository) count(ctx context.Context, query string, userID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		r.log.Error("Failed to count notifications",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count notifications of user %s: %w", userID.String(), err)
	}
	return total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to mark notification read",
			zap.Error(err),
			zap.String("notification_id", id.String()),
		)
		return false, fmt.Errorf("mark notification %s read: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to mark notifications read",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("mark notifications of user %s read: %w", userID.String(), err)
	}

	return result.RowsAffected(), nil
}
