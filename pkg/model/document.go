package model

import "time"

type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FilePath    string    `gorm:"column:file_path" json:"file_path"`
	UserID      uint      `gorm:"column:user_id" json:"user_id"`
	User        *Account  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d Document) TableName() string {
	return "documents"
}
