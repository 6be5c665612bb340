package repository

import (
	"context"

	"github.com/cooscarhuerta/CRMGrapHQL/internal/domain"
)

// UserRepository handles salesperson account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

// ProductRepository handles catalog persistence. ReserveStock and
// RestoreStock are the only mutations the order workflow applies to
// stock; both are single-statement atomic updates.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, text string, limit int) ([]domain.Product, error)
	Delete(ctx context.Context, id int64) error

	// ReserveStock decrements stock by qty only when the remaining
	// stock stays non-negative. Returns domain.ErrNotFound when the
	// product is absent and *domain.InsufficientStockError when the
	// guard rejects the decrement.
	ReserveStock(ctx context.Context, id int64, qty int) error

	// RestoreStock returns qty units to the product's stock.
	RestoreStock(ctx context.Context, id int64, qty int) error
}

// ClientRepository handles client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	Update(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id int64) (*domain.Client, error)
	GetByEmail(ctx context.Context, email string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Client, error)
	Delete(ctx context.Context, id int64) error
	CountOrders(ctx context.Context, clientID int64) (int64, error)
}

// OrderRepository handles order persistence. Items travel with the
// order; GetByID always loads them.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Save(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Order, error)
	ListBySellerAndStatus(ctx context.Context, sellerID int64, status string) ([]domain.Order, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Order, error)
	ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) error
	Delete(ctx context.Context, id int64) error
}
