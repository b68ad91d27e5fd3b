package service

import (
	"context"
	"net/http"

	"critichub/internal/cache"
	"critichub/internal/dto"
	"critichub/internal/models"
	"critichub/internal/permissions"
	"critichub/internal/repository"
)

type TitleService interface {
	List(ctx context.Context, filter dto.TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, identity *models.User, req dto.CreateTitleRequest) (*models.Title, error)
	Update(ctx context.Context, identity *models.User, id int64, req dto.UpdateTitleRequest) (*models.Title, error)
	Delete(ctx context.Context, identity *models.User, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
	reviewRepo   repository.ReviewRepository
	ratings      *cache.RatingCache
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
	reviewRepo repository.ReviewRepository,
	ratings *cache.RatingCache,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		reviewRepo:   reviewRepo,
		ratings:      ratings,
	}
}

// List returns a page of titles with ratings folded in from one grouped
// aggregation query. Titles without reviews keep a nil rating.
func (s *titleService) List(ctx context.Context, filter dto.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	titles, total, err := s.titleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	averages, err := s.reviewRepo.AverageScores(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range titles {
		if avg, ok := averages[titles[i].ID]; ok {
			titles[i].Rating = &avg
		}
	}

	return titles, total, nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if avg, ok := s.ratings.Get(ctx, id); ok {
		title.Rating = &avg
		return title, nil
	}

	avg, err := s.reviewRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	title.Rating = avg
	if avg != nil {
		s.ratings.Set(ctx, id, *avg)
	}

	return title, nil
}

func (s *titleService) Create(ctx context.Context, identity *models.User, req dto.CreateTitleRequest) (*models.Title, error) {
	if err := permissions.CanAccessObject(identity, http.MethodPost, permissions.ResourceCatalog, ""); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindBySlug(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	var genres []models.Genre
	if len(req.Genre) > 0 {
		genres, err = s.genreRepo.FindBySlugs(ctx, req.Genre)
		if err != nil {
			return nil, err
		}
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  category.ID,
		Category:    category,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}
	return title, nil
}

func (s *titleService) Update(ctx context.Context, identity *models.User, id int64, req dto.UpdateTitleRequest) (*models.Title, error) {
	if err := permissions.CanAccessObject(identity, http.MethodPatch, permissions.ResourceCatalog, ""); err != nil {
		return nil, err
	}

	title, err := s.titleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Resolve every referenced slug before touching the row: a patch that
	// names an unknown genre must fail without saving anything.
	var genres []models.Genre
	if req.Genre != nil {
		genres, err = s.genreRepo.FindBySlugs(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		category, err := s.categoryRepo.FindBySlug(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = category.ID
		title.Category = category
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}

	if req.Genre != nil {
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
		title.Genres = genres
	}

	return title, nil
}

func (s *titleService) Delete(ctx context.Context, identity *models.User, id int64) error {
	if err := permissions.CanAccessObject(identity, http.MethodDelete, permissions.ResourceCatalog, ""); err != nil {
		return err
	}
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.ratings.Invalidate(ctx, id)
	return nil
}
