package dto

import "reviewhub/internal/models"

// CreateTitleDTO for creating a title. Category and genres are passed by slug.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category" binding:"required"`
	Genres      []string `json:"genre,omitempty"`
}

// UpdateTitleDTO for partial updates. Nil fields are left untouched.
type UpdateTitleDTO struct {
	Name        *string   `json:"name,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Genres      *[]string `json:"genre,omitempty"`
}

// TitleResponse for returning a title with its derived rating. Rating is
// null when the title has no reviews.
type TitleResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *int             `json:"rating"`
	Description string           `json:"description,omitempty"`
	Genres      []GenreResponse  `json:"genre"`
	Category    CategoryResponse `json:"category"`
}

// TitleFilters carries the list query parameters.
type TitleFilters struct {
	Name         string
	Year         *int
	CategorySlug string
	GenreSlug    string
	Page         int
	PageSize     int
}

// FromModelToTitleResponse converts a Title model plus its computed rating
// to a TitleResponse DTO
func FromModelToTitleResponse(title *models.Title, rating *int) *TitleResponse {
	genres := make([]GenreResponse, 0, len(title.Genres))
	for i := range title.Genres {
		genres = append(genres, *FromModelToGenreResponse(&title.Genres[i]))
	}
	return &TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Rating:      rating,
		Description: title.Description,
		Genres:      genres,
		Category:    *FromModelToCategoryResponse(&title.Category),
	}
}
