package domain

import "time"

// Client is a CRM customer record owned by exactly one salesperson.
// SellerID is set at creation and never reassigned.
type Client struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"size:128" json:"name"`
	Surname   string    `gorm:"size:128" json:"surname"`
	Company   string    `gorm:"size:255" json:"company"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Phone     string    `gorm:"size:64" json:"phone"`
	SellerID  int64     `gorm:"index" json:"seller_id,string"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
