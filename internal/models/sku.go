package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SKU: 6 char company prefix + 8 random alphanumerics
type SKU struct {
	ID                string          `gorm:"primaryKey;size:14" json:"id"`
	CompanyID         string          `gorm:"size:6;index;uniqueIndex:idx_sku_company_model;not null" json:"companyId"`
	ItemName          string          `gorm:"size:200;not null" json:"itemName"`
	ModelNumber       *string         `gorm:"size:100;uniqueIndex:idx_sku_company_model" json:"modelNumber"`
	HSNCode           string          `gorm:"column:hsn_code;size:20" json:"hsnCode"`
	Unit              string          `gorm:"size:20;not null;default:'pcs'" json:"unit"`
	CurrentStock      int             `gorm:"not null;default:0" json:"currentStock"`
	MinStockLevel     int             `gorm:"not null;default:0" json:"minStockLevel"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"unitPrice"`
	GSTRate           decimal.Decimal `gorm:"column:gst_rate;type:decimal(5,2);not null;default:0" json:"gstRate"`
	VendorID          *uint           `gorm:"index" json:"vendorId"`
	BrandID           *uint           `gorm:"index" json:"brandId"`
	ProductCategoryID *uint           `gorm:"index" json:"productCategoryId"`
	ItemCategoryID    *uint           `gorm:"index" json:"itemCategoryId"`
	SubCategoryID     *uint           `gorm:"index" json:"subCategoryId"`
	IsActive          bool            `gorm:"not null;default:true" json:"isActive"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

func (SKU) TableName() string {
	return "skus"
}

// IsLowStock: stock fell under the configured minimum
func (s SKU) IsLowStock() bool {
	return s.MinStockLevel > 0 && s.CurrentStock < s.MinStockLevel
}
