package inventory

import (
	"context"
	"strings"
	"time"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/models"

	"gorm.io/gorm"
)

type RejectedReportFilter struct {
	InvoiceNumber string
	SKUID         string
	VendorID      *uint
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

type Disposition struct {
	SentToVendor int
	ReceivedBack int
	Scrapped     int
}

const (
	ShortStatusPending  = "pending"
	ShortStatusResolved = "resolved"
)

// ShortItemReport is derived from incoming lines; nothing is stored.
type ShortItemReport struct {
	ItemID              uint       `json:"itemId"`
	IncomingInventoryID uint       `json:"incomingInventoryId"`
	InvoiceNumber       string     `json:"invoiceNumber"`
	InvoiceDate         time.Time  `json:"invoiceDate"`
	VendorID            uint       `json:"vendorId"`
	VendorName          string     `json:"vendorName"`
	SKUID               string     `gorm:"column:sku_id" json:"skuId"`
	ItemName            string     `json:"itemName"`
	ModelNumber         *string    `json:"modelNumber"`
	TotalQuantity       int        `json:"totalQuantity"`
	Received            int        `json:"received"`
	Short               int        `json:"short"`
	Rejected            int        `json:"rejected"`
	ShortQuantity       int        `json:"shortQuantity"`
	ChallanNumber       string     `json:"challanNumber"`
	ChallanDate         *time.Time `json:"challanDate"`
	Status              string     `json:"status"`
}

type ShortReportFilter struct {
	Status   string
	VendorID *uint
}

func (s *Service) ListRejectedReports(ctx context.Context, companyID string, f RejectedReportFilter) ([]models.RejectedItemReport, int64, error) {
	q := scoped(s.db.WithContext(ctx).Model(&models.RejectedItemReport{}), companyID)
	if inv := strings.TrimSpace(f.InvoiceNumber); inv != "" {
		q = q.Where("invoice_number = ?", inv)
	}
	if f.SKUID != "" {
		q = q.Where("sku_id = ?", f.SKUID)
	}
	if f.VendorID != nil {
		q = q.Where("vendor_id = ?", *f.VendorID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", f.To.AddDate(0, 0, 1))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var reports []models.RejectedItemReport
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	err := q.Preload("SKU").Order("created_at DESC, sequence DESC, id DESC").Find(&reports).Error
	return reports, total, err
}

// UpdateRejectedReport records what happened to rejected units. NetRejected
// is recomputed by the model on save.
func (s *Service) UpdateRejectedReport(ctx context.Context, p auth.Principal, id uint, d Disposition) (*models.RejectedItemReport, error) {
	if d.SentToVendor < 0 || d.ReceivedBack < 0 || d.Scrapped < 0 {
		return nil, apperror.Validation("disposition quantities cannot be negative")
	}
	var report models.RejectedItemReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, p.CompanyID).First(&report, id).Error; err != nil {
			return err
		}
		if d.SentToVendor+d.ReceivedBack+d.Scrapped > report.Quantity {
			return apperror.Validation("sentToVendor + receivedBack + scrapped cannot exceed %d", report.Quantity)
		}
		before := report
		report.SentToVendor = d.SentToVendor
		report.ReceivedBack = d.ReceivedBack
		report.Scrapped = d.Scrapped
		if err := tx.Save(&report).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, entityRejected, report.ID, models.AuditActionUpdate, "disposition updated", before, report)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "rejected item report")
	}
	s.publish(ctx, p.CompanyID, entityRejected, events.ActionUpdated, report.ID)
	return &report, nil
}

// ListShortReports lists lines where less arrived than was ordered. A line is
// resolved once its short quantity has been settled or written off.
func (s *Service) ListShortReports(ctx context.Context, companyID string, f ShortReportFilter) ([]ShortItemReport, error) {
	q := s.db.WithContext(ctx).
		Table("incoming_inventory_items AS i").
		Select(`i.id AS item_id, i.incoming_inventory_id, h.invoice_number, h.invoice_date,
			h.vendor_id, v.name AS vendor_name, i.sku_id, s.item_name, s.model_number,
			i.total_quantity, i.received, i.short, i.rejected,
			i.total_quantity - i.received AS short_quantity,
			i.challan_number, i.challan_date`).
		Joins("JOIN incoming_inventories AS h ON h.id = i.incoming_inventory_id").
		Joins("LEFT JOIN vendors AS v ON v.id = h.vendor_id").
		Joins("LEFT JOIN skus AS s ON s.id = i.sku_id").
		Where("i.company_id = ?", companyID).
		Where("h.status <> ?", models.IncomingStatusCancelled).
		Where("i.total_quantity > i.received")

	switch f.Status {
	case "":
	case ShortStatusPending:
		q = q.Where("i.short > 0")
	case ShortStatusResolved:
		q = q.Where("i.short = 0")
	default:
		return nil, apperror.Validation("status must be one of [pending resolved]")
	}
	if f.VendorID != nil {
		q = q.Where("h.vendor_id = ?", *f.VendorID)
	}

	var rows []ShortItemReport
	if err := q.Order("h.invoice_date DESC, i.id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Status = ShortStatusPending
		if rows[i].Short == 0 {
			rows[i].Status = ShortStatusResolved
		}
	}
	return rows, nil
}
