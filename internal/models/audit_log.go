package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	CompanyID string    `gorm:"size:6;index;not null" json:"companyId"`
	UserID    uint      `json:"userId"`

	// "incoming_inventory", "incoming_inventory_item", "sku", ...
	EntityType string      `gorm:"size:50;index" json:"entityType"`
	EntityID   string      `gorm:"size:20;index" json:"entityId"`
	Action     AuditAction `gorm:"size:20" json:"action"`

	Description string         `gorm:"size:255" json:"description"`
	BeforeData  datatypes.JSON `json:"beforeData"`
	AfterData   datatypes.JSON `json:"afterData"`
}
