package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

// FindInStock returns the products among ids whose stock is above zero.
func (r *GormRepo) FindInStock(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Where("id IN ? AND stock > 0", ids).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DecrementStock takes one unit of a product. The WHERE guard keeps stock
// from going negative when two orders race for the last unit.
func (r *GormRepo) DecrementStock(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOutOfStock
	}
	return nil
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Omit("User").Create(order).Error
}

// CreateOrderDetail inserts the detail row and its join rows without
// touching the referenced products.
func (r *GormRepo) CreateOrderDetail(ctx context.Context, detail *models.OrderDetail) error {
	return r.DB.WithContext(ctx).Omit("Order", "Products.*").Create(detail).Error
}

func (r *GormRepo) LinkOrderDetail(ctx context.Context, orderID, detailID uuid.UUID) error {
	res := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("order_detail_id", detailID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("User").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderDetailByOrder(ctx context.Context, orderID uuid.UUID) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	if err := r.DB.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("order_id = ?", orderID).
		First(&detail).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}
