package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// RejectedItemReport: appended once per received -> rejected move
type RejectedItemReport struct {
	ID                      uint       `gorm:"primaryKey" json:"id"`
	CompanyID               string     `gorm:"size:6;not null;uniqueIndex:idx_rejected_report_seq" json:"companyId"`
	InvoiceNumber           string     `gorm:"size:50;not null;uniqueIndex:idx_rejected_report_seq" json:"invoiceNumber"`
	Sequence                int        `gorm:"not null;uniqueIndex:idx_rejected_report_seq" json:"sequence"`
	ReportNumber            string     `gorm:"size:80;index;not null" json:"reportNumber"`
	IncomingInventoryID     uint       `gorm:"index;not null" json:"incomingInventoryId"`
	IncomingInventoryItemID uint       `gorm:"index;not null" json:"incomingInventoryItemId"`
	SKUID                   string     `gorm:"column:sku_id;size:14;index;not null" json:"skuId"`
	SKU                     *SKU       `gorm:"foreignKey:SKUID;references:ID" json:"sku,omitempty"`
	VendorID                uint       `gorm:"index" json:"vendorId"`
	BrandID                 uint       `json:"brandId"`
	Quantity                int        `gorm:"not null" json:"quantity"`
	InspectionDate          *time.Time `json:"inspectionDate"`
	Reason                  string     `gorm:"size:30" json:"reason"`
	SentToVendor            int        `gorm:"not null;default:0" json:"sentToVendor"`
	ReceivedBack            int        `gorm:"not null;default:0" json:"receivedBack"`
	Scrapped                int        `gorm:"not null;default:0" json:"scrapped"`
	NetRejected             int        `gorm:"not null;default:0" json:"netRejected"`
	CreatedBy               uint       `json:"createdBy"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// RejectedReportNumber formats REJ/<invoice>/<seq>. The padding keeps string
// order equal to sequence order only up to 999; order by Sequence, never by
// ReportNumber.
func RejectedReportNumber(invoice string, seq int) string {
	return fmt.Sprintf("REJ/%s/%03d", invoice, seq)
}

func (r *RejectedItemReport) BeforeSave(tx *gorm.DB) error {
	r.NetRejected = r.Quantity - r.SentToVendor - r.ReceivedBack - r.Scrapped
	return nil
}
