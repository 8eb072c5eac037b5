package usecase

import (
	"context"
	"fmt"
	"time"

	"perfume-collection/internal/data/entity"
	"perfume-collection/internal/data/repository"
	"perfume-collection/pkg/messaging"
	"perfume-collection/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationSink receives the notifications produced by one fan-out.
type NotificationSink interface {
	Deliver(ctx context.Context, notifications []*entity.Notification) error
}

// StoreSink writes notifications to the notifications table.
type StoreSink struct {
	repo repository.NotificationRepository
}

func NewStoreSink(repo repository.NotificationRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Deliver(ctx context.Context, notifications []*entity.Notification) error {
	return s.repo.CreateBatch(ctx, notifications)
}

// NotificationEvent is the message published for every delivered notification.
type NotificationEvent struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	FromUserID *string   `json:"from_user_id,omitempty"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	PerfumeID  *string   `json:"perfume_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PublishingSink delivers to next and then publishes every notification on
// "<prefix>.<recipient id>". Publish failures are logged and do not fail
// the delivery, since the rows are already stored.
type PublishingSink struct {
	next      NotificationSink
	publisher messaging.Publisher
	prefix    string
	log       *zap.Logger
}

func NewPublishingSink(next NotificationSink, publisher messaging.Publisher, prefix string, log *zap.Logger) *PublishingSink {
	if prefix == "" {
		prefix = "notifications"
	}
	return &PublishingSink{
		next:      next,
		publisher: publisher,
		prefix:    prefix,
		log:       log.With(zap.String("sink", "publishing")),
	}
}

func (s *PublishingSink) Deliver(ctx context.Context, notifications []*entity.Notification) error {
	if err := s.next.Deliver(ctx, notifications); err != nil {
		return err
	}

	for _, n := range notifications {
		subject := s.prefix + "." + n.UserID.String()
		if err := s.publisher.Publish(ctx, subject, toEvent(n)); err != nil {
			s.log.Warn("Failed to publish notification event",
				zap.Error(err),
				zap.String("subject", subject),
				zap.String("notification_id", n.ID.String()),
			)
		}
	}

	return nil
}

func toEvent(n *entity.Notification) NotificationEvent {
	event := NotificationEvent{
		ID:        n.ID.String(),
		UserID:    n.UserID.String(),
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
	if n.FromUserID != nil {
		from := n.FromUserID.String()
		event.FromUserID = &from
	}
	if n.PerfumeID != nil {
		perfume := n.PerfumeID.String()
		event.PerfumeID = &perfume
	}
	return event
}

// Notifier computes the audience of each collection event and hands one
// notification per recipient to the sink. It never returns an error: the
// triggering mutation has already succeeded when it runs.
type Notifier struct {
	follows repository.FollowRepository
	sink    NotificationSink
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewNotifier(follows repository.FollowRepository, sink NotificationSink, m *metrics.Metrics, log *zap.Logger) *Notifier {
	return &Notifier{
		follows: follows,
		sink:    sink,
		metrics: m,
		log:     log.With(zap.String("service", "notifier")),
		now:     time.Now,
	}
}

func (n *Notifier) NewPerfume(ctx context.Context, perfume *entity.Perfume) {
	n.toFollowers(ctx, perfume.UserID, entity.NotificationNewPerfume, func(recipient uuid.UUID) *entity.Notification {
		return n.build(recipient, perfume.UserID, entity.NotificationNewPerfume,
			"Nowe perfumy!",
			fmt.Sprintf("Dodał nowe perfumy: %s", perfume.Name),
			&perfume.ID,
		)
	})
}

// PerfumeDeleted carries no perfume reference: the row is already gone.
func (n *Notifier) PerfumeDeleted(ctx context.Context, perfume *entity.Perfume) {
	n.toFollowers(ctx, perfume.UserID, entity.NotificationPerfumeDeleted, func(recipient uuid.UUID) *entity.Notification {
		return n.build(recipient, perfume.UserID, entity.NotificationPerfumeDeleted,
			"Perfumy usunięte",
			fmt.Sprintf("Usunął perfumy: %s by %s", perfume.Name, perfume.Brand),
			nil,
		)
	})
}

// NewComment notifies the perfume owner unless they wrote the comment.
func (n *Notifier) NewComment(ctx context.Context, perfume *entity.Perfume, commenterID uuid.UUID) {
	if perfume.UserID == commenterID {
		return
	}
	notification := n.build(perfume.UserID, commenterID, entity.NotificationNewComment,
		"Nowy komentarz!",
		fmt.Sprintf("Skomentował Twoje perfumy: %s", perfume.Name),
		&perfume.ID,
	)
	n.deliver(ctx, entity.NotificationNewComment, []*entity.Notification{notification})
}

func (n *Notifier) Follow(ctx context.Context, followerID, targetID uuid.UUID) {
	notification := n.build(targetID, followerID, entity.NotificationFollow,
		"Nowy obserwujący!",
		"Zaczął Cię obserwować",
		nil,
	)
	n.deliver(ctx, entity.NotificationFollow, []*entity.Notification{notification})
}

func (n *Notifier) toFollowers(ctx context.Context, ownerID uuid.UUID, kind entity.NotificationType, build func(uuid.UUID) *entity.Notification) {
	followers, err := n.follows.FindFollowerIDs(ctx, ownerID)
	if err != nil {
		n.log.Error("Failed to load followers for fan-out",
			zap.Error(err),
			zap.String("user_id", ownerID.String()),
			zap.String("type", string(kind)),
		)
		n.metrics.NotificationFailed(string(kind))
		return
	}

	if len(followers) == 0 {
		return
	}

	notifications := make([]*entity.Notification, 0, len(followers))
	for _, follower := range followers {
		notifications = append(notifications, build(follower))
	}
	n.deliver(ctx, kind, notifications)
}

func (n *Notifier) deliver(ctx context.Context, kind entity.NotificationType, notifications []*entity.Notification) {
	if err := n.sink.Deliver(ctx, notifications); err != nil {
		n.log.Error("Failed to deliver notifications",
			zap.Error(err),
			zap.String("type", string(kind)),
			zap.Int("recipients", len(notifications)),
		)
		n.metrics.NotificationFailed(string(kind))
		return
	}

	n.metrics.NotificationsDelivered(string(kind), len(notifications))
	n.log.Debug("Notifications delivered",
		zap.String("type", string(kind)),
		zap.Int("recipients", len(notifications)),
	)
}

func (n *Notifier) build(recipient, from uuid.UUID, kind entity.NotificationType, title, message string, perfumeID *uuid.UUID) *entity.Notification {
	fromID := from
	var perfume *uuid.UUID
	if perfumeID != nil {
		id := *perfumeID
		perfume = &id
	}

	return &entity.Notification{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: n.now(),
		},
		UserID:     recipient,
		FromUserID: &fromID,
		Type:       kind,
		Title:      title,
		Message:    message,
		PerfumeID:  perfume,
	}
}
