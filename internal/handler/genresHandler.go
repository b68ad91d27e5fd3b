package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"critichub/internal/dto"
	"critichub/internal/middleware"
	"critichub/internal/service"
)

type GenreHandler struct {
	genreService service.GenreService
}

func NewGenreHandler(genreService service.GenreService) *GenreHandler {
	return &GenreHandler{genreService: genreService}
}

func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres")
	{
		genres.GET("", h.List)
		genres.POST("", h.Create)
		genres.DELETE("/:slug", h.Delete)
	}
}

// List returns genres, world-readable
// GET /api/v1/genres?search=&page=&page_size=
func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)

	genres, total, err := h.genreService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.GenreResponse, 0, len(genres))
	for _, genre := range genres {
		responses = append(responses, dto.GenreResponse{Name: genre.Name, Slug: genre.Slug})
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(responses, total, page, pageSize))
}

// Create adds a genre, admin-only
// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
		return
	}

	genre, err := h.genreService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenreResponse{Name: genre.Name, Slug: genre.Slug})
}

// Delete removes a genre unless titles still reference it, admin-only
// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
