package usecase

import (
	"context"
	"fmt"
	"time"

	"perfume-collection/internal/data/entity"
	"perfume-collection/internal/data/repository"
	"perfume-collection/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FollowService interface {
	Follow(ctx context.Context, targetID, userID string) error
	Unfollow(ctx context.Context, targetID, userID string) error
	GetFollowing(ctx context.Context, userID string) (*response.FollowingResponse, error)
}

type followService struct {
	repo     *repository.Repository
	notifier *Notifier
	log      *zap.Logger
}

func NewFollowService(repo *repository.Repository, notifier *Notifier, log *zap.Logger) FollowService {
	return &followService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "follow")),
	}
}

func (s *followService) Follow(ctx context.Context, targetID, userID string) error {
	followerID, err := actorID(userID)
	if err != nil {
		return err
	}

	target, err := parseID("user", targetID)
	if err != nil {
		return err
	}

	if followerID == target {
		return ErrSelfFollow
	}

	profile, err := s.repo.Profile.FindByID(ctx, target)
	if err != nil {
		return fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("user %s: %w", targetID, ErrNotFound)
	}

	created, err := s.repo.Follow.Create(ctx, &entity.Follow{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		FollowerID:  followerID,
		FollowingID: target,
	})
	if err != nil {
		s.log.Error("Failed to follow user",
			zap.Error(err),
			zap.String("follower_id", userID),
			zap.String("following_id", targetID),
		)
		return fmt.Errorf("follow user: %w", err)
	}
	if !created {
		return fmt.Errorf("user %s: %w", targetID, ErrAlreadyFollowing)
	}

	s.log.Info("User followed",
		zap.String("follower_id", userID),
		zap.String("following_id", targetID),
	)

	s.notifier.Follow(ctx, followerID, target)
	return nil
}

func (s *followService) Unfollow(ctx context.Context, targetID, userID string) error {
	followerID, err := actorID(userID)
	if err != nil {
		return err
	}

	target, err := parseID("user", targetID)
	if err != nil {
		return err
	}

	if err := s.repo.Follow.Delete(ctx, followerID, target); err != nil {
		s.log.Error("Failed to unfollow user",
			zap.Error(err),
			zap.String("follower_id", userID),
			zap.String("following_id", targetID),
		)
		return fmt.Errorf("unfollow user: %w", err)
	}

	s.log.Info("User unfollowed",
		zap.String("follower_id", userID),
		zap.String("following_id", targetID),
	)
	return nil
}

func (s *followService) GetFollowing(ctx context.Context, userID string) (*response.FollowingResponse, error) {
	followerID, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	ids, err := s.repo.Follow.FindFollowingIDs(ctx, followerID)
	if err != nil {
		return nil, fmt.Errorf("get following: %w", err)
	}

	resp := &response.FollowingResponse{
		FollowingIDs: make([]string, 0, len(ids)),
		Users:        make([]response.ProfileResponse, 0, len(ids)),
	}
	for _, id := range ids {
		resp.FollowingIDs = append(resp.FollowingIDs, id.String())
	}
	if len(ids) == 0 {
		return resp, nil
	}

	profiles, err := s.repo.Profile.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get followed profiles: %w", err)
	}
	for _, p := range profiles {
		resp.Users = append(resp.Users, response.ProfileToResponse(p))
	}
	return resp, nil
}
