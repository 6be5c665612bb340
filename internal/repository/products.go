package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"gorm.io/gorm"
)

// GormProductRepository is the GORM implementation of ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("%w: create product: %v", domain.ErrInternal, err)
	}
	return nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("%w: update product: %v", domain.ErrInternal, err)
	}
	return nil
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query product: %v", domain.ErrInternal, err)
	}
	return &product, nil
}

func (r *GormProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: list products: %v", domain.ErrInternal, err)
	}
	return products, nil
}

func (r *GormProductRepository) Search(ctx context.Context, text string, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	var products []domain.Product
	pattern := "%" + strings.ToLower(strings.TrimSpace(text)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("%w: search products: %v", domain.ErrInternal, err)
	}
	return products, nil
}

func (r *GormProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("%w: delete product: %v", domain.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return nil
}

// ReserveStock is the oversell guard: the decrement and the stock check
// happen in one conditional UPDATE, so two concurrent reservations can
// never both pass the check before either writes.
func (r *GormProductRepository) ReserveStock(ctx context.Context, id int64, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("%w: reserve stock: %v", domain.ErrInternal, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// No row matched: distinguish a missing product from an
	// insufficient stock rejection.
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &domain.InsufficientStockError{
		Product:   product.Name,
		Requested: qty,
		Available: product.Stock,
	}
}

func (r *GormProductRepository) RestoreStock(ctx context.Context, id int64, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("%w: restore stock: %v", domain.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", domain.ErrNotFound, id)
	}
	return nil
}
