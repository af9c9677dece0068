package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type IncomingStatus string

const (
	IncomingStatusDraft     IncomingStatus = "draft"
	IncomingStatusCompleted IncomingStatus = "completed"
	IncomingStatusCancelled IncomingStatus = "cancelled"
)

// CanTransitionTo: draft -> completed | cancelled, nothing leaves a final state
func (s IncomingStatus) CanTransitionTo(next IncomingStatus) bool {
	if s != IncomingStatusDraft {
		return false
	}
	return next == IncomingStatusCompleted || next == IncomingStatusCancelled
}

// IncomingInventory: one receiving event (invoice / challan)
type IncomingInventory struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	CompanyID         string          `gorm:"size:6;index;not null" json:"companyId"`
	InvoiceNumber     string          `gorm:"size:50;index;not null" json:"invoiceNumber"`
	InvoiceDate       time.Time       `gorm:"index;not null" json:"invoiceDate"`
	ChallanNumber     string          `gorm:"size:50" json:"challanNumber"`
	ChallanDate       *time.Time      `json:"challanDate"`
	ReceivingDate     *time.Time      `json:"receivingDate"`
	DocketNumber      string          `gorm:"size:50" json:"docketNumber"`
	Remarks           string          `gorm:"size:500" json:"remarks"`
	VendorID          uint            `gorm:"index;not null" json:"vendorId"`
	Vendor            *Vendor         `json:"vendor,omitempty"`
	BrandID           uint            `gorm:"index;not null" json:"brandId"`
	Brand             *Brand          `json:"brand,omitempty"`
	Status            IncomingStatus  `gorm:"size:20;index;not null;default:'draft'" json:"status"`
	TotalValueExclGST decimal.Decimal `gorm:"column:total_value_excl_gst;type:decimal(14,2);not null;default:0" json:"totalValueExclGst"`
	TotalValueInclGST decimal.Decimal `gorm:"column:total_value_incl_gst;type:decimal(14,2);not null;default:0" json:"totalValueInclGst"`
	CreatedBy         uint            `json:"createdBy"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`

	Items []IncomingInventoryItem `gorm:"foreignKey:IncomingInventoryID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (IncomingInventory) TableName() string {
	return "incoming_inventories"
}

// IncomingInventoryItem: one SKU line. Received is fixed at creation and only
// ever shrinks through a received -> rejected move.
type IncomingInventoryItem struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	CompanyID           string          `gorm:"size:6;index;not null" json:"companyId"`
	IncomingInventoryID uint            `gorm:"index;not null" json:"incomingInventoryId"`
	SKUID               string          `gorm:"column:sku_id;size:14;index;not null" json:"skuId"`
	SKU                 *SKU            `gorm:"foreignKey:SKUID;references:ID" json:"sku,omitempty"`
	TotalQuantity       int             `gorm:"not null" json:"totalQuantity"`
	Received            int             `gorm:"not null" json:"received"`
	Short               int             `gorm:"not null;default:0" json:"short"`
	Rejected            int             `gorm:"not null;default:0" json:"rejected"`
	UnitPrice           decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"unitPrice"`
	GSTRate             decimal.Decimal `gorm:"column:gst_rate;type:decimal(5,2);not null;default:0" json:"gstRate"`
	NumberOfBoxes       int             `gorm:"not null;default:0" json:"numberOfBoxes"`
	TotalValueExclGST   decimal.Decimal `gorm:"column:total_value_excl_gst;type:decimal(14,2);not null;default:0" json:"totalValueExclGst"`
	TotalValueInclGST   decimal.Decimal `gorm:"column:total_value_incl_gst;type:decimal(14,2);not null;default:0" json:"totalValueInclGst"`
	ChallanNumber       string          `gorm:"size:50" json:"challanNumber"`
	ChallanDate         *time.Time      `json:"challanDate"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}
