package repository

import (
	"context"

	"gorm.io/gorm"

	"critichub/internal/dto"
	"critichub/internal/models"
)

type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	FindByID(ctx context.Context, id int64) (*models.Title, error)
	List(ctx context.Context, filter dto.TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	Update(ctx context.Context, title *models.Title) error
	ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(ctx context.Context, title *models.Title) error {
	return translateError(r.db.WithContext(ctx).Create(title).Error)
}

func (r *titleRepository) FindByID(ctx context.Context, id int64) (*models.Title, error) {
	var title models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&title, "titles.id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &title, nil
}

func (r *titleRepository) List(ctx context.Context, filter dto.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var titles []models.Title
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Title{})

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.GenreSlug != "" {
		query = query.Joins("JOIN title_genres ON title_genres.title_id = titles.id").
			Joins("JOIN genres ON genres.id = title_genres.genre_id").
			Where("genres.slug = ?", filter.GenreSlug)
	}
	if filter.Name != "" {
		query = query.Where("titles.name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Year != 0 {
		query = query.Where("titles.year = ?", filter.Year)
	}

	if err := query.Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, translateError(err)
	}

	offset := (page - 1) * pageSize
	err := query.Distinct().
		Preload("Category").
		Preload("Genres").
		Order("titles.id ASC").
		Limit(pageSize).
		Offset(offset).
		Find(&titles).Error
	if err != nil {
		return nil, 0, translateError(err)
	}

	return titles, total, nil
}

func (r *titleRepository) Update(ctx context.Context, title *models.Title) error {
	// Omit the association: genre replacement is explicit via
	// ReplaceGenres so a field patch never silently clears tags.
	return translateError(r.db.WithContext(ctx).Omit("Genres").Save(title).Error)
}

func (r *titleRepository) ReplaceGenres(ctx context.Context, title *models.Title, genres []models.Genre) error {
	return translateError(r.db.WithContext(ctx).Model(title).Association("Genres").Replace(genres))
}

// Delete removes the title together with its genre links; reviews and
// their comments go with it through the ON DELETE CASCADE constraints.
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM title_genres WHERE title_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Title{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}
