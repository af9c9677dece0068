package models

import "time"

type Vendor struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompanyID     string    `gorm:"size:6;index;not null" json:"companyId"`
	Name          string    `gorm:"size:150;not null" json:"name"`
	GSTNumber     string    `gorm:"column:gst_number;size:15" json:"gstNumber"`
	ContactPerson string    `gorm:"size:100" json:"contactPerson"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Email         string    `gorm:"size:100" json:"email"`
	Address       string    `gorm:"size:255" json:"address"`
	IsActive      bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Brand struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   string    `gorm:"size:6;index;not null" json:"companyId"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	IsActive    bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
