package repository

import (
	"context"

	"gorm.io/gorm"

	"critichub/internal/apperrors"
	"critichub/internal/models"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) error
	FindBySlug(ctx context.Context, slug string) (*models.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	CountTitles(ctx context.Context, genreID int64) (int64, error)
	Delete(ctx context.Context, slug string) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return translateError(r.db.WithContext(ctx).Create(genre).Error)
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return &genre, nil
}

// FindBySlugs resolves a set of genre slugs; any unknown slug makes the
// whole lookup fail with NotFound.
func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, translateError(err)
	}
	if len(genres) != len(slugs) {
		return nil, apperrors.ErrNotFound
	}
	return genres, nil
}

func (r *genreRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	var genres []models.Genre
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Genre{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Limit(pageSize).Offset(offset).Find(&genres).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return genres, total, nil
}

// CountTitles reports how many titles still carry the genre tag.
func (r *genreRepository) CountTitles(ctx context.Context, genreID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("title_genres").
		Where("genre_id = ?", genreID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

func (r *genreRepository) Delete(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Genre{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
