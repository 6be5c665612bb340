package domain

import "time"

// User is a salesperson account. The password column only ever holds a
// bcrypt hash; plaintext is never persisted.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Name      string    `gorm:"size:128" json:"name"`
	Surname   string    `gorm:"size:128" json:"surname"`
	Password  string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
