package models

import "time"

type Feedback struct {
	ID        string    `gorm:"primary_key" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type" form:"type"`
	Content   string    `gorm:"type:text;not null" json:"content" form:"content"`
	CreatedAt time.Time `json:"created_at"`
}
