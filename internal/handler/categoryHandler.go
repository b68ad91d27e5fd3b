package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"critichub/internal/dto"
	"critichub/internal/middleware"
	"critichub/internal/service"
)

type CategoryHandler struct {
	categoryService service.CategoryService
}

func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", h.Create)
		categories.DELETE("/:slug", h.Delete)
	}
}

// List returns categories, world-readable
// GET /api/v1/categories?search=&page=&page_size=
func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := pageParams(c)

	categories, total, err := h.categoryService.List(c.Request.Context(), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, dto.CategoryResponse{Name: category.Name, Slug: category.Slug})
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(responses, total, page, pageSize))
}

// Create adds a category, admin-only
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryResponse{Name: category.Name, Slug: category.Slug})
}

// Delete removes a category unless titles still reference it, admin-only
// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
