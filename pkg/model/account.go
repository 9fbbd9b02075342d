package model

import "time"

// Account is a user of the service.
// PasswordHash holds a bcrypt hash and is never serialized.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a Account) TableName() string {
	return "accounts"
}
