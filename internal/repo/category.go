package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	if err := r.DB.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *GormRepo) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var cat models.Category
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&cat).Error; err != nil {
		return nil, err
	}
	return &cat, nil
}

// CreateCategoryIfMissing reports whether a new row was inserted.
func (r *GormRepo) CreateCategoryIfMissing(ctx context.Context, name string) (bool, error) {
	cat := models.Category{Name: name}
	res := r.DB.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&cat)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
