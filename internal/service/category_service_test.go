package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"critichub/internal/apperrors"
	"critichub/internal/dto"
	"critichub/internal/models"
)

func TestDeleteCategoryBlockedByTitles(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	admin := &models.User{ID: "adm", Role: models.RoleAdmin}

	repo.On("FindBySlug", mock.Anything, "movie").
		Return(&models.Category{ID: 3, Name: "Movies", Slug: "movie"}, nil)
	repo.On("CountTitles", mock.Anything, int64(3)).Return(int64(12), nil)

	err := svc.Delete(context.Background(), admin, "movie")
	assert.ErrorIs(t, err, apperrors.ErrReferentialConflict)

	// The category must survive a blocked delete.
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteCategoryWithoutTitles(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)
	admin := &models.User{ID: "adm", Role: models.RoleAdmin}

	repo.On("FindBySlug", mock.Anything, "empty").
		Return(&models.Category{ID: 4, Name: "Empty", Slug: "empty"}, nil)
	repo.On("CountTitles", mock.Anything, int64(4)).Return(int64(0), nil)
	repo.On("Delete", mock.Anything, "empty").Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), admin, "empty"))
	repo.AssertExpectations(t)
}

func TestDeleteCategoryRequiresAdmin(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)

	err := svc.Delete(context.Background(), &models.User{ID: "u", Role: models.RoleUser}, "movie")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	err = svc.Delete(context.Background(), &models.User{ID: "m", Role: models.RoleModerator}, "movie")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCreateCategoryRequiresAdmin(t *testing.T) {
	repo := new(MockCategoryRepository)
	svc := NewCategoryService(repo)

	_, err := svc.Create(context.Background(), &models.User{ID: "u", Role: models.RoleUser},
		dto.CreateCategoryRequest{Name: "Movies", Slug: "movie"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
