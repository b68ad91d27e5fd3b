package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"critichub/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	ExistsByAuthorAndTitle(ctx context.Context, authorID string, titleID int64) (bool, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, titleID, reviewID int64) error
	AverageScore(ctx context.Context, titleID int64) (*float64, error)
	AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return translateError(r.db.WithContext(ctx).Create(review).Error)
}

func (r *reviewRepository) FindByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Title").
		First(&review, "id = ? AND title_id = ?", reviewID, titleID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &review, nil
}

func (r *reviewRepository) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("title_id = ?", titleID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Where("title_id = ?", titleID).
		Preload("Author").
		Preload("Title").
		Order("pub_date DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, translateError(err)
	}

	return reviews, total, nil
}

func (r *reviewRepository) ExistsByAuthorAndTitle(ctx context.Context, authorID string, titleID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("author_id = ? AND title_id = ?", authorID, titleID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err)
	}
	return count > 0, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) error {
	return translateError(r.db.WithContext(ctx).Save(review).Error)
}

func (r *reviewRepository) Delete(ctx context.Context, titleID, reviewID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND title_id = ?", reviewID, titleID).
		Delete(&models.Review{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return translateError(gorm.ErrRecordNotFound)
	}
	return nil
}

// AverageScore computes the mean review score for one title. Nil, not 0,
// when the title has no reviews: zero would read as a rating.
func (r *reviewRepository) AverageScore(ctx context.Context, titleID int64) (*float64, error) {
	var avg *float64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("AVG(score)").
		Where("title_id = ?", titleID).
		Scan(&avg).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translateError(err)
	}
	return avg, nil
}

// AverageScores batches the mean computation for a listing page; titles
// without reviews are simply absent from the result map.
func (r *reviewRepository) AverageScores(ctx context.Context, titleIDs []int64) (map[int64]float64, error) {
	averages := make(map[int64]float64, len(titleIDs))
	if len(titleIDs) == 0 {
		return averages, nil
	}

	var rows []struct {
		TitleID int64
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("title_id, AVG(score) AS average").
		Where("title_id IN ?", titleIDs).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	for _, row := range rows {
		averages[row.TitleID] = row.Average
	}
	return averages, nil
}
