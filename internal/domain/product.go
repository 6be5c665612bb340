package domain

import "time"

// Product is a catalog item. Stock counts units available for
// reservation and must never go negative after a committed operation.
type Product struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"index;size:255" json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
