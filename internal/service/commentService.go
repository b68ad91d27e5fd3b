package service

import (
	"context"
	"net/http"

	"critichub/internal/dto"
	"critichub/internal/models"
	"critichub/internal/permissions"
	"critichub/internal/repository"
)

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error)
	Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, identity *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*models.Comment, error)
	Update(ctx context.Context, identity *models.User, reviewID, commentID int64, req dto.UpdateCommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, identity *models.User, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	reviewRepo repository.ReviewRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	if _, err := s.reviewRepo.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID, page, pageSize)
}

func (s *commentService) Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	return s.commentRepo.FindByID(ctx, reviewID, commentID)
}

// Create allows any number of comments per (author, review) pair; only
// the review's existence is checked, unlike review creation.
func (s *commentService) Create(ctx context.Context, identity *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*models.Comment, error) {
	if err := permissions.CanAccessCollection(identity, http.MethodPost, permissions.ResourceReviews); err != nil {
		return nil, err
	}

	if _, err := s.reviewRepo.FindByID(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: identity.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByID(ctx, reviewID, comment.ID)
}

func (s *commentService) Update(ctx context.Context, identity *models.User, reviewID, commentID int64, req dto.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if err := permissions.CanAccessObject(identity, http.MethodPatch, permissions.ResourceReviews, comment.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, identity *models.User, reviewID, commentID int64) error {
	comment, err := s.commentRepo.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return err
	}

	if err := permissions.CanAccessObject(identity, http.MethodDelete, permissions.ResourceReviews, comment.AuthorID); err != nil {
		return err
	}

	return s.commentRepo.Delete(ctx, reviewID, commentID)
}
