package dto

import "critichub/internal/models"

type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=80"`
	Year        int      `json:"year" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Genre       []string `json:"genre"`
}

type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=80"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// TitleFilter carries the supported list filters. Zero values mean
// "not filtered".
type TitleFilter struct {
	CategorySlug string `form:"category"`
	GenreSlug    string `form:"genre"`
	Name         string `form:"name"`
	Year         int    `form:"year"`
}

// TitleResponse is the single representation used by both list and detail
// reads; category and genre are always nested objects.
type TitleResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *float64         `json:"rating"`
	Description string           `json:"description"`
	Genre       []GenreResponse  `json:"genre"`
	Category    CategoryResponse `json:"category"`
}

func FromModelToTitleResponse(t *models.Title) *TitleResponse {
	resp := &TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	if t.Category != nil {
		resp.Category = CategoryResponse{Name: t.Category.Name, Slug: t.Category.Slug}
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreResponse{Name: g.Name, Slug: g.Slug})
	}
	return resp
}
