package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"perfume-collection/internal/data/entity"
	"perfume-collection/internal/data/repository"
	"perfume-collection/internal/dto/request"
	"perfume-collection/internal/dto/response"
	"perfume-collection/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultCommentQuota = 5
	MaxCommentLength    = 500
)

type CommentService interface {
	AddComment(ctx context.Context, perfumeID, userID string, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID, userID string) error
	ListComments(ctx context.Context, perfumeID string) ([]response.CommentResponse, error)
	GetQuota(ctx context.Context, perfumeID, userID string) (*response.CommentQuotaResponse, error)
}

type commentService struct {
	repo     *repository.Repository
	notifier *Notifier
	metrics  *metrics.Metrics
	quota    int
	log      *zap.Logger
}

func NewCommentService(repo *repository.Repository, notifier *Notifier, m *metrics.Metrics, quota int, log *zap.Logger) CommentService {
	if quota <= 0 {
		quota = DefaultCommentQuota
	}
	return &commentService{
		repo:     repo,
		notifier: notifier,
		metrics:  m,
		quota:    quota,
		log:      log.With(zap.String("service", "comment")),
	}
}

// ValidateComment trims text and checks its length in characters.
func ValidateComment(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: comment cannot be empty", ErrValidation)
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", fmt.Errorf("%w: comment cannot be longer than %d characters", ErrValidation, MaxCommentLength)
	}
	return text, nil
}

func (s *commentService) AddComment(ctx context.Context, perfumeID, userID string, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	authorID, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	text, err := ValidateComment(req.Comment)
	if err != nil {
		s.log.Warn("Comment validation failed", zap.Error(err))
		return nil, err
	}

	id, err := parseID("perfume", perfumeID)
	if err != nil {
		return nil, err
	}

	perfume, err := s.repo.Perfume.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find perfume: %w", err)
	}
	if perfume == nil {
		return nil, fmt.Errorf("perfume %s: %w", perfumeID, ErrNotFound)
	}

	now := time.Now()
	comment := &entity.Comment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PerfumeID: id,
		UserID:    authorID,
		Comment:   text,
	}

	count, inserted, err := s.repo.Comment.CreateWithinQuota(ctx, comment, s.quota)
	if err != nil {
		s.log.Error("Failed to add comment",
			zap.Error(err),
			zap.String("perfume_id", perfumeID),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("add comment: %w", err)
	}
	if !inserted {
		s.metrics.CommentQuotaRejected()
		s.log.Warn("Comment quota reached",
			zap.String("perfume_id", perfumeID),
			zap.String("user_id", userID),
			zap.Int("count", count),
		)
		return nil, fmt.Errorf("%w: at most %d comments per perfume", ErrQuotaExceeded, s.quota)
	}

	s.log.Info("Comment added",
		zap.String("comment_id", comment.ID.String()),
		zap.String("perfume_id", perfumeID),
		zap.String("user_id", userID),
	)

	s.notifier.NewComment(ctx, perfume, authorID)

	withAuthor := &entity.CommentWithAuthor{Comment: *comment}
	if author, err := s.repo.Profile.FindByID(ctx, authorID); err == nil && author != nil {
		withAuthor.AuthorEmail = &author.Email
		withAuthor.AuthorFullName = author.FullName
		withAuthor.AuthorAvatarURL = author.AvatarURL
	}

	resp := response.CommentToResponse(withAuthor)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, commentID, userID string) error {
	authorID, err := actorID(userID)
	if err != nil {
		return err
	}

	id, err := parseID("comment", commentID)
	if err != nil {
		return err
	}

	comment, err := s.repo.Comment.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
	}
	if comment.UserID != authorID {
		return fmt.Errorf("comment %s belongs to another user: %w", commentID, ErrForbidden)
	}

	deleted, err := s.repo.Comment.DeleteOwned(ctx, id, authorID)
	if err != nil {
		s.log.Error("Failed to delete comment",
			zap.Error(err),
			zap.String("comment_id", commentID),
		)
		return fmt.Errorf("delete comment: %w", err)
	}
	if !deleted {
		return fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
	}

	s.log.Info("Comment deleted",
		zap.String("comment_id", commentID),
		zap.String("user_id", userID),
	)
	return nil
}

func (s *commentService) ListComments(ctx context.Context, perfumeID string) ([]response.CommentResponse, error) {
	id, err := parseID("perfume", perfumeID)
	if err != nil {
		return nil, err
	}

	perfume, err := s.repo.Perfume.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find perfume: %w", err)
	}
	if perfume == nil {
		return nil, fmt.Errorf("perfume %s: %w", perfumeID, ErrNotFound)
	}

	comments, err := s.repo.Comment.FindByPerfume(ctx, id)
	if err != nil {
		s.log.Error("Failed to list comments",
			zap.Error(err),
			zap.String("perfume_id", perfumeID),
		)
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return response.CommentsToResponse(comments), nil
}

func (s *commentService) GetQuota(ctx context.Context, perfumeID, userID string) (*response.CommentQuotaResponse, error) {
	authorID, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	id, err := parseID("perfume", perfumeID)
	if err != nil {
		return nil, err
	}

	used, err := s.repo.Comment.CountByUserAndPerfume(ctx, authorID, id)
	if err != nil {
		return nil, fmt.Errorf("get comment quota: %w", err)
	}

	remaining := s.quota - used
	if remaining < 0 {
		remaining = 0
	}

	return &response.CommentQuotaResponse{
		Used:      used,
		Limit:     s.quota,
		Remaining: remaining,
	}, nil
}
