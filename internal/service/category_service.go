package service

import (
	"context"
	"net/http"

	"critichub/internal/apperrors"
	"critichub/internal/dto"
	"critichub/internal/models"
	"critichub/internal/permissions"
	"critichub/internal/repository"
)

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	Create(ctx context.Context, identity *models.User, req dto.CreateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, identity *models.User, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	return s.categoryRepo.List(ctx, search, page, pageSize)
}

func (s *categoryService) Create(ctx context.Context, identity *models.User, req dto.CreateCategoryRequest) (*models.Category, error) {
	if err := permissions.CanAccessObject(identity, http.MethodPost, permissions.ResourceCatalog, ""); err != nil {
		return nil, err
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete refuses to remove a category that titles still reference, so the
// caller gets a conflict instead of an orphaned catalog.
func (s *categoryService) Delete(ctx context.Context, identity *models.User, slug string) error {
	if err := permissions.CanAccessObject(identity, http.MethodDelete, permissions.ResourceCatalog, ""); err != nil {
		return err
	}

	category, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}

	dependents, err := s.categoryRepo.CountTitles(ctx, category.ID)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return apperrors.ErrReferentialConflict
	}

	return s.categoryRepo.Delete(ctx, slug)
}
