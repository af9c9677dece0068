package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory: snapshot written when an incoming invoice is completed
type PriceHistory struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	CompanyID           string          `gorm:"size:6;index;not null" json:"companyId"`
	SKUID               string          `gorm:"column:sku_id;size:14;index;not null" json:"skuId"`
	VendorID            uint            `gorm:"index" json:"vendorId"`
	IncomingInventoryID uint            `gorm:"index" json:"incomingInventoryId"`
	InvoiceNumber       string          `gorm:"size:50" json:"invoiceNumber"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unitPrice"`
	EffectiveDate       time.Time       `gorm:"index;not null" json:"effectiveDate"`
	CreatedAt           time.Time       `json:"createdAt"`
}

func (PriceHistory) TableName() string {
	return "price_histories"
}
