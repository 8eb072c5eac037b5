package request

type CreatePerfumeRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Brand       string   `json:"brand" validate:"required,max=200"`
	Price       float64  `json:"price" validate:"gt=0"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5,halfstep"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Notes       []string `json:"notes" validate:"max=30,dive,required,max=100"`
	Categories  []string `json:"categories" validate:"required,min=1,dive,category"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdatePerfumeRequest is a partial update: nil fields are left untouched.
type UpdatePerfumeRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Brand       *string   `json:"brand,omitempty" validate:"omitempty,min=1,max=200"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Rating      *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5,halfstep"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Notes       *[]string `json:"notes,omitempty" validate:"omitempty,max=30,dive,required,max=100"`
	Categories  *[]string `json:"categories,omitempty" validate:"omitempty,min=1,dive,category"`
	ImageURL    *string   `json:"image_url,omitempty" validate:"omitempty,url"`
	IsFavorite  *bool     `json:"is_favorite,omitempty"`
}

// FeedRequest mirrors the query string of the collection page.
type FeedRequest struct {
	View          string `validate:"omitempty,oneof=my following user"`
	UserID        string `validate:"omitempty,uuid"`
	Category      string
	Search        string `validate:"max=200"`
	FavoritesOnly bool
	SortBy        string `validate:"omitempty,oneof=created_at name price rating"`
	SortDirection string `validate:"omitempty,oneof=asc desc"`
}
