package dto

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=80"`
	Slug string `json:"slug" binding:"required,max=25"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=80"`
	Slug string `json:"slug" binding:"required,max=25"`
}

type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}
