package usecase

import (
	"context"
	"fmt"

	"perfume-collection/internal/data/repository"
	"perfume-collection/internal/dto/request"
	"perfume-collection/internal/dto/response"

	"go.uber.org/zap"
)

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
	GetUnreadCount(ctx context.Context, userID string) (*response.UnreadCountResponse, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) (*response.MarkAllReadResponse, error)
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	recipient, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	notifications, err := s.repo.Notification.FindByUser(ctx, recipient, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get notifications",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	total, err := s.repo.Notification.CountByUser(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	return response.NewPaginatedResponse(
		response.NotificationsToResponse(notifications), req.Page, req.Limit(), total,
	), nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, userID string) (*response.UnreadCountResponse, error) {
	recipient, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.Notification.CountUnread(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("count unread notifications: %w", err)
	}

	return &response.UnreadCountResponse{Unread: unread}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	recipient, err := actorID(userID)
	if err != nil {
		return err
	}

	id, err := parseID("notification", notificationID)
	if err != nil {
		return err
	}

	updated, err := s.repo.Notification.MarkRead(ctx, id, recipient)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !updated {
		return fmt.Errorf("notification %s: %w", notificationID, ErrNotFound)
	}

	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (*response.MarkAllReadResponse, error) {
	recipient, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Notification.MarkAllRead(ctx, recipient)
	if err != nil {
		return nil, fmt.Errorf("mark all notifications read: %w", err)
	}

	s.log.Debug("Notifications marked read",
		zap.String("user_id", userID),
		zap.Int64("updated", updated),
	)

	return &response.MarkAllReadResponse{Updated: updated}, nil
}
