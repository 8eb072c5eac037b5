package entity

import (
	"github.com/google/uuid"
)

type Perfume struct {
	Base
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Brand       string    `db:"brand"`
	Price       float64   `db:"price"`
	Rating      float64   `db:"rating"` // 0-5, step 0.5
	Description *string   `db:"description"`
	Notes       []string  `db:"notes"`
	Categories  []string  `db:"categories"`
	ImageURL    *string   `db:"image_url"`
	IsFavorite  bool      `db:"is_favorite"`
}
