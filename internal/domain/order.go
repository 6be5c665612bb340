package domain

import "time"

const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// ValidOrderStatus reports whether s is one of the recognised order states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order references one client and the salesperson who placed it.
// SellerID is denormalized from the client at placement time and is the
// authority for ownership checks on the order itself.
type Order struct {
	ID        int64       `gorm:"primaryKey" json:"id,string"`
	ClientID  int64       `gorm:"index" json:"client_id,string"`
	SellerID  int64       `gorm:"index" json:"seller_id,string"`
	Total     float64     `json:"total"`
	Status    string      `gorm:"size:32" json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem is one reserved line of an order. Price is the product's
// unit price snapshotted at reservation time.
type OrderItem struct {
	ID        int64   `gorm:"primaryKey" json:"id,string"`
	OrderID   int64   `gorm:"index" json:"order_id,string"`
	ProductID int64   `gorm:"index" json:"product_id,string"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}
