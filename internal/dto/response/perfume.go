package response

import (
	"time"

	"perfume-collection/internal/data/entity"
)

type PerfumeResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	Description *string   `json:"description,omitempty"`
	Notes       []string  `json:"notes"`
	Categories  []string  `json:"categories"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsFavorite  bool      `json:"is_favorite"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type FavoriteResponse struct {
	ID         string `json:"id"`
	IsFavorite bool   `json:"is_favorite"`
}

// CategoryCount is one entry of the category sidebar. Counts are returned
// as an ordered list so "All" comes first and the fixed categories keep
// their display order.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func PerfumeToResponse(p *entity.Perfume) PerfumeResponse {
	notes := p.Notes
	if notes == nil {
		notes = []string{}
	}
	categories := p.Categories
	if categories == nil {
		categories = []string{}
	}

	return PerfumeResponse{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Rating:      p.Rating,
		Description: p.Description,
		Notes:       notes,
		Categories:  categories,
		ImageURL:    p.ImageURL,
		IsFavorite:  p.IsFavorite,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func PerfumesToResponse(perfumes []*entity.Perfume) []PerfumeResponse {
	result := make([]PerfumeResponse, 0, len(perfumes))
	for _, p := range perfumes {
		result = append(result, PerfumeToResponse(p))
	}
	return result
}
