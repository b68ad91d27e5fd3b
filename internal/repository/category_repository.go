package repository

import (
	"context"

	"gorm.io/gorm"

	"critichub/internal/apperrors"
	"critichub/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	CountTitles(ctx context.Context, categoryID int64) (int64, error)
	Delete(ctx context.Context, slug string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translateError(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, translateError(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Category{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("name ASC").Limit(pageSize).Offset(offset).Find(&categories).Error; err != nil {
		return nil, 0, translateError(err)
	}
	return categories, total, nil
}

func (r *categoryRepository) CountTitles(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Title{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Delete removes the category row. The service refuses while titles still
// reference it; the RESTRICT foreign key catches any racing title creation
// and translateError maps it to the same conflict error.
func (r *categoryRepository) Delete(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Category{})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
