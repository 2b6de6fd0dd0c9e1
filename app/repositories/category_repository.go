package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rakhulsr/e-agri/app/models"
	"gorm.io/gorm"
)

type CategoryRepositoryImpl interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListActive(ctx context.Context) ([]models.Category, error)
	FirstOrCreate(ctx context.Context, category *models.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category %s: %w", id, err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category by slug %s: %w", slug, err)
	}
	return &category, nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("category_name ASC").Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// FirstOrCreate matches on slug, so seeding twice keeps the first row.
func (r *categoryRepository) FirstOrCreate(ctx context.Context, category *models.Category) error {
	err := r.db.WithContext(ctx).Where("slug = ?", category.Slug).Attrs(category).FirstOrCreate(category).Error
	if err != nil {
		return fmt.Errorf("failed to seed category %s: %w", category.Slug, err)
	}
	return nil
}
