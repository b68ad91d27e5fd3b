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

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	Create(ctx context.Context, identity *models.User, req dto.CreateGenreRequest) (*models.Genre, error)
	Delete(ctx context.Context, identity *models.User, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	return s.genreRepo.List(ctx, search, page, pageSize)
}

func (s *genreService) Create(ctx context.Context, identity *models.User, req dto.CreateGenreRequest) (*models.Genre, error) {
	if err := permissions.CanAccessObject(identity, http.MethodPost, permissions.ResourceCatalog, ""); err != nil {
		return nil, err
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		return nil, err
	}
	return genre, nil
}

// Delete refuses to remove a genre that is still attached to any title.
func (s *genreService) Delete(ctx context.Context, identity *models.User, slug string) error {
	if err := permissions.CanAccessObject(identity, http.MethodDelete, permissions.ResourceCatalog, ""); err != nil {
		return err
	}

	genre, err := s.genreRepo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}

	dependents, err := s.genreRepo.CountTitles(ctx, genre.ID)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return apperrors.ErrReferentialConflict
	}

	return s.genreRepo.Delete(ctx, slug)
}
