package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"critichub/internal/dto"
	"critichub/internal/middleware"
	"critichub/internal/service"
)

type TitleHandler struct {
	titleService service.TitleService
}

func NewTitleHandler(titleService service.TitleService) *TitleHandler {
	return &TitleHandler{titleService: titleService}
}

func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.GET("/:title_id", h.Get)
		titles.POST("", h.Create)
		titles.PATCH("/:title_id", h.Update)
		titles.DELETE("/:title_id", h.Delete)
	}
}

// List returns titles with computed ratings, world-readable
// GET /api/v1/titles?category=&genre=&name=&year=&page=&page_size=
func (h *TitleHandler) List(c *gin.Context) {
	var filter dto.TitleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
		return
	}
	page, pageSize := pageParams(c)

	titles, total, err := h.titleService.List(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i]))
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(responses, total, page, pageSize))
}

// Get returns one title with its computed rating, world-readable
// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	title, err := h.titleService.Get(c.Request.Context(), titleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTitleResponse(title))
}

// Create adds a title, admin-only
// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
		return
	}

	title, err := h.titleService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromModelToTitleResponse(title))
}

// Update patches a title, admin-only
// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": err.Error()})
		return
	}

	title, err := h.titleService.Update(c.Request.Context(), middleware.CurrentUser(c), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToTitleResponse(title))
}

// Delete removes a title and cascades to its reviews and comments, admin-only
// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	titleID, ok := pathID(c, "title_id")
	if !ok {
		return
	}

	if err := h.titleService.Delete(c.Request.Context(), middleware.CurrentUser(c), titleID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
