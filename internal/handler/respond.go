package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"critichub/internal/apperrors"
)

// respondError is the single place where the domain error taxonomy turns
// into HTTP statuses. Anything not in the taxonomy is an internal error
// and its message stays out of the response body.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrReferentialConflict):
		status = http.StatusConflict
		message = err.Error()
	}

	c.JSON(status, gin.H{"kind": apperrors.Kind(err), "error": message})
}

func pageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"kind": "validation", "error": "invalid " + name})
		return 0, false
	}
	return id, true
}
