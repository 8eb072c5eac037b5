package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"perfume-collection/internal/data/entity"
	"perfume-collection/internal/data/repository"
	"perfume-collection/internal/dto/request"
	"perfume-collection/internal/dto/response"
	"perfume-collection/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PerfumeService interface {
	CreatePerfume(ctx context.Context, userID string, req *request.CreatePerfumeRequest) (*response.PerfumeResponse, error)
	GetPerfume(ctx context.Context, perfumeID string) (*response.PerfumeResponse, error)
	UpdatePerfume(ctx context.Context, perfumeID, userID string, req *request.UpdatePerfumeRequest) (*response.PerfumeResponse, error)
	DeletePerfume(ctx context.Context, perfumeID, userID string) error
	ToggleFavorite(ctx context.Context, perfumeID, userID string) (*response.FavoriteResponse, error)
}

type perfumeService struct {
	repo     *repository.Repository
	notifier *Notifier
	log      *zap.Logger
}

func NewPerfumeService(repo *repository.Repository, notifier *Notifier, log *zap.Logger) PerfumeService {
	return &perfumeService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "perfume")),
	}
}

func (s *perfumeService) CreatePerfume(ctx context.Context, userID string, req *request.CreatePerfumeRequest) (*response.PerfumeResponse, error) {
	ownerID, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Brand = strings.TrimSpace(req.Brand)
	req.Notes = cleanList(req.Notes)
	req.Categories = cleanList(req.Categories)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create perfume validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	perfume := &entity.Perfume{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:      ownerID,
		Name:        req.Name,
		Brand:       req.Brand,
		Price:       req.Price,
		Rating:      req.Rating,
		Description: req.Description,
		Notes:       req.Notes,
		Categories:  req.Categories,
		ImageURL:    req.ImageURL,
		IsFavorite:  false,
	}

	if err := s.repo.Perfume.Create(ctx, perfume); err != nil {
		s.log.Error("Failed to create perfume",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("create perfume: %w", err)
	}

	s.log.Info("Perfume created",
		zap.String("perfume_id", perfume.ID.String()),
		zap.String("user_id", userID),
		zap.String("name", perfume.Name),
	)

	s.notifier.NewPerfume(ctx, perfume)

	resp := response.PerfumeToResponse(perfume)
	return &resp, nil
}

func (s *perfumeService) GetPerfume(ctx context.Context, perfumeID string) (*response.PerfumeResponse, error) {
	id, err := parseID("perfume", perfumeID)
	if err != nil {
		return nil, err
	}

	perfume, err := s.repo.Perfume.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get perfume: %w", err)
	}
	if perfume == nil {
		return nil, fmt.Errorf("perfume %s: %w", perfumeID, ErrNotFound)
	}

	resp := response.PerfumeToResponse(perfume)
	return &resp, nil
}

func (s *perfumeService) UpdatePerfume(ctx context.Context, perfumeID, userID string, req *request.UpdatePerfumeRequest) (*response.PerfumeResponse, error) {
	ownerID, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	id, err := parseID("perfume", perfumeID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if req.Brand != nil {
		trimmed := strings.TrimSpace(*req.Brand)
		req.Brand = &trimmed
	}
	if req.Notes != nil {
		notes := cleanList(*req.Notes)
		req.Notes = &notes
	}
	if req.Categories != nil {
		categories := cleanList(*req.Categories)
		req.Categories = &categories
	}

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update perfume validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	perfume, err := s.findOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		perfume.Name = *req.Name
	}
	if req.Brand != nil {
		perfume.Brand = *req.Brand
	}
	if req.Price != nil {
		perfume.Price = *req.Price
	}
	if req.Rating != nil {
		perfume.Rating = *req.Rating
	}
	if req.Description != nil {
		perfume.Description = req.Description
	}
	if req.Notes != nil {
		perfume.Notes = *req.Notes
	}
	if req.Categories != nil {
		perfume.Categories = *req.Categories
	}
	if req.ImageURL != nil {
		perfume.ImageURL = req.ImageURL
	}
	if req.IsFavorite != nil {
		perfume.IsFavorite = *req.IsFavorite
	}
	perfume.UpdatedAt = time.Now()

	if err := s.repo.Perfume.Update(ctx, perfume); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, fmt.Errorf("perfume %s: %w", perfumeID, ErrNotFound)
		}
		s.log.Error("Failed to update perfume",
			zap.Error(err),
			zap.String("perfume_id", perfumeID),
		)
		return nil, fmt.Errorf("update perfume: %w", err)
	}

	s.log.Info("Perfume updated",
		zap.String("perfume_id", perfumeID),
		zap.String("user_id", userID),
	)

	resp := response.PerfumeToResponse(perfume)
	return &resp, nil
}

func (s *perfumeService) DeletePerfume(ctx context.Context, perfumeID, userID string) error {
	ownerID, err := actorID(userID)
	if err != nil {
		return err
	}

	id, err := parseID("perfume", perfumeID)
	if err != nil {
		return err
	}

	if _, err := s.findOwned(ctx, id, ownerID); err != nil {
		return err
	}

	deleted, err := s.repo.Perfume.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		s.log.Error("Failed to delete perfume",
			zap.Error(err),
			zap.String("perfume_id", perfumeID),
		)
		return fmt.Errorf("delete perfume: %w", err)
	}
	if deleted == nil {
		return fmt.Errorf("perfume %s: %w", perfumeID, ErrNotFound)
	}

	s.log.Info("Perfume deleted",
		zap.String("perfume_id", perfumeID),
		zap.String("user_id", userID),
	)

	s.notifier.PerfumeDeleted(ctx, deleted)
	return nil
}

func (s *perfumeService) ToggleFavorite(ctx context.Context, perfumeID, userID string) (*response.FavoriteResponse, error) {
	ownerID, err := actorID(userID)
	if err != nil {
		return nil, err
	}

	id, err := parseID("perfume", perfumeID)
	if err != nil {
		return nil, err
	}

	isFavorite, err := s.repo.Perfume.ToggleFavorite(ctx, id, ownerID)
	if err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	if isFavorite == nil {
		// Nothing matched (id, owner): tell missing apart from foreign.
		if _, err := s.findOwned(ctx, id, ownerID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("perfume %s: %w", perfumeID, ErrNotFound)
	}

	s.log.Debug("Favorite toggled",
		zap.String("perfume_id", perfumeID),
		zap.Bool("is_favorite", *isFavorite),
	)

	return &response.FavoriteResponse{ID: perfumeID, IsFavorite: *isFavorite}, nil
}

// ==================== HELPER METHODS ====================

func (s *perfumeService) findOwned(ctx context.Context, id, ownerID uuid.UUID) (*entity.Perfume, error) {
	perfume, err := s.repo.Perfume.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find perfume: %w", err)
	}
	if perfume == nil {
		return nil, fmt.Errorf("perfume %s: %w", id.String(), ErrNotFound)
	}
	if perfume.UserID != ownerID {
		s.log.Warn("Perfume ownership check failed",
			zap.String("perfume_id", id.String()),
			zap.String("owner_id", perfume.UserID.String()),
			zap.String("actor_id", ownerID.String()),
		)
		return nil, fmt.Errorf("perfume %s belongs to another user: %w", id.String(), ErrForbidden)
	}
	return perfume, nil
}

// cleanList trims entries, drops blanks and removes duplicates keeping order.
func cleanList(values []string) []string {
	result := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
