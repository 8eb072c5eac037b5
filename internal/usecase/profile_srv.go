package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"perfume-collection/internal/data/entity"
	"perfume-collection/internal/data/repository"
	"perfume-collection/internal/dto/response"
	"perfume-collection/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileService interface {
	// GetMe provisions the caller's profile from the token identity and returns it.
	GetMe(ctx context.Context, identity utils.Identity) (*response.ProfileResponse, error)
	// EnsureProfile creates the caller's profile row the first time this
	// process sees the identity, so writes never hit a missing profile.
	EnsureProfile(ctx context.Context, identity utils.Identity) error
	GetUserProfile(ctx context.Context, targetID, userID string) (*response.UserResponse, error)
	ExploreUsers(ctx context.Context, userID string) ([]response.UserResponse, error)
}

type profileService struct {
	repo *repository.Repository
	log  *zap.Logger

	// provisioned holds the user ids already upserted by this process.
	provisioned sync.Map
}

func NewProfileService(repo *repository.Repository, log *zap.Logger) ProfileService {
	return &profileService{
		repo: repo,
		log:  log.With(zap.String("service", "profile")),
	}
}

func (s *profileService) GetMe(ctx context.Context, identity utils.Identity) (*response.ProfileResponse, error) {
	if identity.UserID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}

	profile, err := s.syncProfile(ctx, identity)
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.Profile.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if stored == nil {
		stored = profile
	}

	resp := response.ProfileToResponse(stored)
	return &resp, nil
}

func (s *profileService) EnsureProfile(ctx context.Context, identity utils.Identity) error {
	if identity.UserID == uuid.Nil {
		return ErrNotAuthenticated
	}
	if _, ok := s.provisioned.Load(identity.UserID); ok {
		return nil
	}

	_, err := s.syncProfile(ctx, identity)
	return err
}

func (s *profileService) syncProfile(ctx context.Context, identity utils.Identity) (*entity.Profile, error) {
	profile := &entity.Profile{
		ID:        identity.UserID,
		Email:     strings.TrimSpace(identity.Email),
		FullName:  identity.Name,
		AvatarURL: identity.AvatarURL,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Profile.Upsert(ctx, profile); err != nil {
		s.log.Error("Failed to sync profile",
			zap.Error(err),
			zap.String("user_id", identity.UserID.String()),
		)
		return nil, fmt.Errorf("sync profile: %w", err)
	}

	s.provisioned.Store(identity.UserID, struct{}{})
	return profile, nil
}

func (s *profileService) GetUserProfile(ctx context.Context, targetID, userID string) (*response.UserResponse, error) {
	viewer, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	target, err := parseID("user", targetID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.Profile.FindByID(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("user %s: %w", targetID, ErrNotFound)
	}

	count, err := s.repo.Perfume.CountByOwner(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("count perfumes: %w", err)
	}

	following := false
	if viewer != target {
		following, err = s.repo.Follow.Exists(ctx, viewer, target)
		if err != nil {
			return nil, fmt.Errorf("check follow: %w", err)
		}
	}

	return &response.UserResponse{
		ProfileResponse: response.ProfileToResponse(profile),
		PerfumeCount:    count,
		IsFollowing:     following,
	}, nil
}

func (s *profileService) ExploreUsers(ctx context.Context, userID string) ([]response.UserResponse, error) {
	viewer, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.repo.Profile.FindSummariesExcept(ctx, viewer)
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("explore users: %w", err)
	}

	followingIDs, err := s.repo.Follow.FindFollowingIDs(ctx, viewer)
	if err != nil {
		return nil, fmt.Errorf("explore users: %w", err)
	}
	following := make(map[uuid.UUID]bool, len(followingIDs))
	for _, id := range followingIDs {
		following[id] = true
	}

	users := make([]response.UserResponse, 0, len(summaries))
	for _, summary := range summaries {
		users = append(users, response.UserResponse{
			ProfileResponse: response.ProfileToResponse(&summary.Profile),
			PerfumeCount:    summary.PerfumeCount,
			IsFollowing:     following[summary.ID],
		})
	}

	SortExplore(users)
	return users, nil
}

// SortExplore puts followed users first, then larger collections, then id.
func SortExplore(users []response.UserResponse) {
	sort.SliceStable(users, func(i, j int) bool {
		a, b := users[i], users[j]
		if a.IsFollowing != b.IsFollowing {
			return a.IsFollowing
		}
		if a.PerfumeCount != b.PerfumeCount {
			return a.PerfumeCount > b.PerfumeCount
		}
		return a.ID < b.ID
	})
}
