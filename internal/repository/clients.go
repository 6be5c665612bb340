package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"gorm.io/gorm"
)

// GormClientRepository is the GORM implementation of ClientRepository.
type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

func (r *GormClientRepository) Create(ctx context.Context, client *domain.Client) error {
	if err := r.db.WithContext(ctx).Create(client).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: client %s", domain.ErrConflict, client.Email)
		}
		return fmt.Errorf("%w: create client: %v", domain.ErrInternal, err)
	}
	return nil
}

func (r *GormClientRepository) Update(ctx context.Context, client *domain.Client) error {
	if err := r.db.WithContext(ctx).Save(client).Error; err != nil {
		return fmt.Errorf("%w: update client: %v", domain.ErrInternal, err)
	}
	return nil
}

func (r *GormClientRepository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: client %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query client: %v", domain.ErrInternal, err)
	}
	return &client, nil
}

func (r *GormClientRepository) GetByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var client domain.Client
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: client %s", domain.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query client: %v", domain.ErrInternal, err)
	}
	return &client, nil
}

func (r *GormClientRepository) List(ctx context.Context) ([]domain.Client, error) {
	var clients []domain.Client
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("%w: list clients: %v", domain.ErrInternal, err)
	}
	return clients, nil
}

func (r *GormClientRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Client, error) {
	var clients []domain.Client
	err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at ASC").
		Find(&clients).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list clients: %v", domain.ErrInternal, err)
	}
	return clients, nil
}

func (r *GormClientRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Client{}, id)
	if res.Error != nil {
		return fmt.Errorf("%w: delete client: %v", domain.ErrInternal, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: client %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *GormClientRepository) CountOrders(ctx context.Context, clientID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("client_id = ?", clientID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("%w: count client orders: %v", domain.ErrInternal, err)
	}
	return count, nil
}
