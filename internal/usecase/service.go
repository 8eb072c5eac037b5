package usecase

import (
	"perfume-collection/internal/data/repository"
	"perfume-collection/pkg/metrics"
	"perfume-collection/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Perfume      PerfumeService
	Feed         FeedService
	Comment      CommentService
	Follow       FollowService
	Notification NotificationService
	Profile      ProfileService
}

func NewService(repo *repository.Repository, sink NotificationSink, config *utils.Config, m *metrics.Metrics, log *zap.Logger) *Service {
	notifier := NewNotifier(repo.Follow, sink, m, log)

	return &Service{
		Perfume:      NewPerfumeService(repo, notifier, log),
		Feed:         NewFeedService(repo, config.Feature.FeedMaxItems, log),
		Comment:      NewCommentService(repo, notifier, m, config.Feature.CommentQuota, log),
		Follow:       NewFollowService(repo, notifier, log),
		Notification: NewNotificationService(repo, log),
		Profile:      NewProfileService(repo, log),
	}
}
