package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
	"gorm.io/gorm"
)

// GormUserRepository is the GORM implementation of UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// the unique email index is the authority; concurrent creates
		// racing past a prior existence check land here
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: user %s", domain.ErrConflict, user.Email)
		}
		return fmt.Errorf("%w: create user: %v", domain.ErrInternal, err)
	}
	return nil
}

func (r *GormUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query user: %v", domain.ErrInternal, err)
	}
	return &user, nil
}

func (r *GormUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query user: %v", domain.ErrInternal, err)
	}
	return &user, nil
}

func (r *GormUserRepository) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("%w: list users: %v", domain.ErrInternal, err)
	}
	return users, nil
}
