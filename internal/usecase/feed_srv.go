package usecase

import (
	"context"
	"fmt"
	"strings"

	"perfume-collection/internal/data/entity"
	"perfume-collection/internal/data/repository"
	"perfume-collection/internal/dto/request"
	"perfume-collection/internal/dto/response"
	"perfume-collection/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	FeedViewMine      = "my"
	FeedViewFollowing = "following"
	FeedViewUser      = "user"
)

type FeedService interface {
	GetFeed(ctx context.Context, userID string, req *request.FeedRequest) ([]response.PerfumeResponse, error)
	GetFavorites(ctx context.Context, userID string) ([]response.PerfumeResponse, error)
	// GetCategoryCounts counts ownerID's perfumes per category. An empty
	// ownerID means the current user.
	GetCategoryCounts(ctx context.Context, userID, ownerID string) ([]response.CategoryCount, error)
}

type feedService struct {
	repo *repository.Repository
	// maxItems caps a feed; 0 returns every matching perfume.
	maxItems int
	log      *zap.Logger
}

func NewFeedService(repo *repository.Repository, maxItems int, log *zap.Logger) FeedService {
	return &feedService{
		repo:     repo,
		maxItems: maxItems,
		log:      log.With(zap.String("service", "feed")),
	}
}

func (s *feedService) GetFeed(ctx context.Context, userID string, req *request.FeedRequest) ([]response.PerfumeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Feed query validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	category := strings.TrimSpace(req.Category)
	if category != "" && category != entity.CategoryAll && !entity.IsValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, category)
	}

	filter := repository.PerfumeFilter{
		Category:      category,
		Search:        req.Search,
		FavoritesOnly: req.FavoritesOnly,
		SortBy:        req.SortBy,
		SortDirection: req.SortDirection,
		Limit:         s.maxItems,
	}

	view := req.View
	if view == "" {
		view = FeedViewMine
		if req.UserID != "" {
			view = FeedViewUser
		}
	}

	switch view {
	case FeedViewUser:
		ownerID, err := parseID("user", req.UserID)
		if err != nil {
			return nil, err
		}
		filter.OwnerID = &ownerID
	case FeedViewFollowing:
		actor, err := actorID(userID)
		if err != nil {
			return nil, err
		}
		filter.FollowerID = &actor
	default:
		actor, err := actorID(userID)
		if err != nil {
			return nil, err
		}
		filter.OwnerID = &actor
	}

	perfumes, err := s.repo.Perfume.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to load feed",
			zap.Error(err),
			zap.String("view", view),
		)
		return nil, fmt.Errorf("get feed: %w", err)
	}

	if s.maxItems > 0 && len(perfumes) == s.maxItems {
		s.log.Warn("Feed reached FEED_MAX_ITEMS and may be truncated",
			zap.String("view", view),
			zap.Int("max_items", s.maxItems),
		)
	}

	s.log.Debug("Feed loaded",
		zap.String("view", view),
		zap.String("category", category),
		zap.Int("count", len(perfumes)),
	)

	return response.PerfumesToResponse(perfumes), nil
}

func (s *feedService) GetFavorites(ctx context.Context, userID string) ([]response.PerfumeResponse, error) {
	return s.GetFeed(ctx, userID, &request.FeedRequest{
		View:          FeedViewMine,
		FavoritesOnly: true,
	})
}

func (s *feedService) GetCategoryCounts(ctx context.Context, userID, ownerID string) ([]response.CategoryCount, error) {
	var (
		owner uuid.UUID
		err   error
	)
	if ownerID != "" {
		owner, err = parseID("user", ownerID)
	} else {
		owner, err = actorID(userID)
	}
	if err != nil {
		return nil, err
	}

	tagSets, err := s.repo.Perfume.FindCategoriesByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("get category counts: %w", err)
	}

	return CountCategories(tagSets), nil
}

// CountCategories returns "All" followed by every fixed category in display
// order. A perfume contributes once to each distinct fixed category it
// carries; unknown tags are ignored.
func CountCategories(tagSets [][]string) []response.CategoryCount {
	counts := make(map[string]int, len(entity.Categories))
	for _, tags := range tagSets {
		seen := make(map[string]bool, len(tags))
		for _, tag := range tags {
			if seen[tag] || !entity.IsValidCategory(tag) {
				continue
			}
			seen[tag] = true
			counts[tag]++
		}
	}

	result := make([]response.CategoryCount, 0, len(entity.Categories)+1)
	result = append(result, response.CategoryCount{Category: entity.CategoryAll, Count: len(tagSets)})
	for _, category := range entity.Categories {
		result = append(result, response.CategoryCount{Category: category, Count: counts[category]})
	}
	return result
}
