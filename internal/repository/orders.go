package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"gorm.io/gorm"
)

// GormOrderRepository is the GORM implementation of OrderRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("%w: create order: %v", domain.ErrInternal, err)
	}
	return nil
}

func (r *GormOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).
		Omit("Items").
		Save(order).Error
	if err != nil {
		return fmt.Errorf("%w: save order: %v", domain.ErrInternal, err)
	}
	return nil
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query order: %v", domain.ErrInternal, err)
	}
	return &order, nil
}

func (r *GormOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Order("created_at ASC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrInternal, err)
	}
	return orders, nil
}

func (r *GormOrderRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("seller_id = ?", sellerID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrInternal, err)
	}
	return orders, nil
}

func (r *GormOrderRepository) ListBySellerAndStatus(ctx context.Context, sellerID int64, status string) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("seller_id = ? AND status = ?", sellerID, status).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrInternal, err)
	}
	return orders, nil
}

func (r *GormOrderRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list orders: %v", domain.ErrInternal, err)
	}
	return orders, nil
}

// ReplaceItems swaps the order's line items for a fresh set. Stock
// accounting for the removed rows is the workflow's concern, not the
// repository's.
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error; err != nil {
		return fmt.Errorf("%w: clear order items: %v", domain.ErrInternal, err)
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := db.Create(&items).Error; err != nil {
		return fmt.Errorf("%w: insert order items: %v", domain.ErrInternal, err)
	}
	return nil
}

func (r *GormOrderRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return fmt.Errorf("%w: delete order items: %v", domain.ErrInternal, err)
	}
	res := db.Delete(&domain.Order{}, id)
	if res.Error != nil {
		return fmt.Errorf("%w: delete order: %v", domain.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d", domain.ErrNotFound, id)
	}
	return nil
}
