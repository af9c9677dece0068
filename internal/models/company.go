package models

import "time"

// Company: tenant root, every other row carries its ID
type Company struct {
	ID        string    `gorm:"primaryKey;size:6" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	GSTNumber string    `gorm:"column:gst_number;size:15;uniqueIndex;not null" json:"gstNumber"`
	Address   string    `gorm:"size:255" json:"address"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
