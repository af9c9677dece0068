package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OutgoingInventory struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CompanyID      string          `gorm:"size:6;index;not null" json:"companyId"`
	DocumentNumber string          `gorm:"size:50;index;not null" json:"documentNumber"`
	DocumentDate   time.Time       `gorm:"index;not null" json:"documentDate"`
	CustomerName   string          `gorm:"size:150" json:"customerName"`
	Destination    string          `gorm:"size:255" json:"destination"`
	Remarks        string          `gorm:"size:500" json:"remarks"`
	TotalValue     decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"totalValue"`
	CreatedBy      uint            `json:"createdBy"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	Items []OutgoingInventoryItem `gorm:"foreignKey:OutgoingInventoryID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (OutgoingInventory) TableName() string {
	return "outgoing_inventories"
}

type OutgoingInventoryItem struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	CompanyID           string          `gorm:"size:6;index;not null" json:"companyId"`
	OutgoingInventoryID uint            `gorm:"index;not null" json:"outgoingInventoryId"`
	SKUID               string          `gorm:"column:sku_id;size:14;index;not null" json:"skuId"`
	SKU                 *SKU            `gorm:"foreignKey:SKUID;references:ID" json:"sku,omitempty"`
	Quantity            int             `gorm:"not null" json:"quantity"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unitPrice"`
	TotalValue          decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"totalValue"`
	CreatedAt           time.Time       `json:"createdAt"`
}
