package inventory

import (
	"context"
	"time"

	"inventory-backend/internal/logger"
	"inventory-backend/internal/models"
)

// recordPriceHistory snapshots the unit prices of a completed invoice. It runs
// after the completion committed; a failure is logged and does not undo it.
func (s *Service) recordPriceHistory(ctx context.Context, header *models.IncomingInventory) {
	if len(header.Items) == 0 {
		return
	}
	effective := header.InvoiceDate
	if header.ReceivingDate != nil {
		effective = *header.ReceivingDate
	}
	rows := make([]models.PriceHistory, 0, len(header.Items))
	for _, it := range header.Items {
		rows = append(rows, models.PriceHistory{
			CompanyID:           header.CompanyID,
			SKUID:               it.SKUID,
			VendorID:            header.VendorID,
			IncomingInventoryID: header.ID,
			InvoiceNumber:       header.InvoiceNumber,
			UnitPrice:           it.UnitPrice,
			EffectiveDate:       effective,
		})
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		logger.LogError(s.log, "inventory", "recordPriceHistory", map[string]any{
			"incomingInventoryId": header.ID,
			"invoiceNumber":       header.InvoiceNumber,
		}, err)
	}
}

type PriceHistoryFilter struct {
	SKUID    string
	VendorID *uint
	From     *time.Time
	To       *time.Time
}

func (s *Service) ListPriceHistory(ctx context.Context, companyID string, f PriceHistoryFilter) ([]models.PriceHistory, error) {
	q := scoped(s.db.WithContext(ctx), companyID)
	if f.SKUID != "" {
		q = q.Where("sku_id = ?", f.SKUID)
	}
	if f.VendorID != nil {
		q = q.Where("vendor_id = ?", *f.VendorID)
	}
	if f.From != nil {
		q = q.Where("effective_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("effective_date < ?", f.To.AddDate(0, 0, 1))
	}
	var rows []models.PriceHistory
	err := q.Order("effective_date DESC, id DESC").Find(&rows).Error
	return rows, err
}
