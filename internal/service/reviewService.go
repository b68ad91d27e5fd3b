package service

import (
	"context"
	"net/http"

	"critichub/internal/apperrors"
	"critichub/internal/cache"
	"critichub/internal/dto"
	"critichub/internal/models"
	"critichub/internal/permissions"
	"critichub/internal/repository"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, identity *models.User, titleID int64, req dto.CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, identity *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, identity *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	ratings    *cache.RatingCache
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	titleRepo repository.TitleRepository,
	ratings *cache.RatingCache,
) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
	}
}

func validateScore(score int) error {
	if score < 1 || score > 10 {
		return apperrors.ErrScoreOutOfRange
	}
	return nil
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	return s.reviewRepo.FindByID(ctx, titleID, reviewID)
}

func (s *reviewService) Create(ctx context.Context, identity *models.User, titleID int64, req dto.CreateReviewRequest) (*models.Review, error) {
	if err := permissions.CanAccessCollection(identity, http.MethodPost, permissions.ResourceReviews); err != nil {
		return nil, err
	}
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}

	if _, err := s.titleRepo.FindByID(ctx, titleID); err != nil {
		return nil, err
	}

	// Friendly pre-check; the unique (author,title) index is what actually
	// closes the race between two concurrent creates.
	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, identity.ID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: identity.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	s.ratings.Invalidate(ctx, titleID)

	return s.reviewRepo.FindByID(ctx, titleID, review.ID)
}

func (s *reviewService) Update(ctx context.Context, identity *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if err := permissions.CanAccessObject(identity, http.MethodPatch, permissions.ResourceReviews, review.AuthorID); err != nil {
		return nil, err
	}

	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}
	if req.Text != nil {
		review.Text = *req.Text
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	s.ratings.Invalidate(ctx, titleID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, identity *models.User, titleID, reviewID int64) error {
	review, err := s.reviewRepo.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if err := permissions.CanAccessObject(identity, http.MethodDelete, permissions.ResourceReviews, review.AuthorID); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, titleID, reviewID); err != nil {
		return err
	}
	s.ratings.Invalidate(ctx, titleID)
	return nil
}
