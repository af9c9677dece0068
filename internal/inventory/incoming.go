package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/models"
	"inventory-backend/internal/reconcile"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type IncomingItemInput struct {
	SKUID         string
	TotalQuantity int
	Received      int
	UnitPrice     decimal.Decimal
	GSTRate       decimal.Decimal
	NumberOfBoxes int
}

type IncomingInput struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	ChallanNumber string
	ChallanDate   *time.Time
	ReceivingDate *time.Time
	DocketNumber  string
	Remarks       string
	VendorID      uint
	BrandID       uint
	Status        models.IncomingStatus
	Items         []IncomingItemInput
}

type IncomingFilter struct {
	Statuses []models.IncomingStatus
	VendorID *uint
	From     *time.Time
	To       *time.Time
	Search   string
	Limit    int
	Offset   int
}

// lineTotals returns the value of a line excluding and including GST.
func lineTotals(qty int, unitPrice, gstRate decimal.Decimal) (excl, incl decimal.Decimal) {
	excl = models.Round2(unitPrice.Mul(decimal.NewFromInt(int64(qty))))
	incl = models.Round2(excl.Mul(decimal.NewFromInt(1).Add(gstRate.Div(hundred))))
	return excl, incl
}

// CreateIncoming stores the header and all its lines in one transaction. Short
// is always derived from total and received.
func (s *Service) CreateIncoming(ctx context.Context, p auth.Principal, in IncomingInput) (*models.IncomingInventory, error) {
	if len(in.Items) == 0 {
		return nil, apperror.Validation("items must not be empty")
	}
	status := in.Status
	if status == "" {
		status = models.IncomingStatusDraft
	}
	if status != models.IncomingStatusDraft && status != models.IncomingStatusCompleted {
		return nil, apperror.Validation("status must be one of [draft completed]")
	}

	header := models.IncomingInventory{
		CompanyID:         p.CompanyID,
		InvoiceNumber:     strings.TrimSpace(in.InvoiceNumber),
		InvoiceDate:       in.InvoiceDate,
		ChallanNumber:     strings.TrimSpace(in.ChallanNumber),
		ChallanDate:       in.ChallanDate,
		ReceivingDate:     in.ReceivingDate,
		DocketNumber:      strings.TrimSpace(in.DocketNumber),
		Remarks:           in.Remarks,
		VendorID:          in.VendorID,
		BrandID:           in.BrandID,
		Status:            status,
		TotalValueExclGST: decimal.Zero,
		TotalValueInclGST: decimal.Zero,
		CreatedBy:         p.UserID,
	}
	if header.InvoiceNumber == "" {
		return nil, apperror.Validation("invoiceNumber is required")
	}

	for i, it := range in.Items {
		q, err := reconcile.New(it.TotalQuantity, it.Received)
		if err != nil {
			return nil, apperror.Validation("items[%d]: %v", i, err)
		}
		if strings.TrimSpace(it.SKUID) == "" {
			return nil, apperror.Validation("items[%d]: skuId is required", i)
		}
		if it.UnitPrice.IsNegative() {
			return nil, apperror.Validation("items[%d]: unitPrice cannot be negative", i)
		}
		if it.GSTRate.IsNegative() || it.GSTRate.GreaterThan(hundred) {
			return nil, apperror.Validation("items[%d]: gstRate must be between 0 and 100", i)
		}
		excl, incl := lineTotals(q.Total, it.UnitPrice, it.GSTRate)
		header.Items = append(header.Items, models.IncomingInventoryItem{
			CompanyID:         p.CompanyID,
			SKUID:             strings.TrimSpace(it.SKUID),
			TotalQuantity:     q.Total,
			Received:          q.Received,
			Short:             q.Short,
			Rejected:          q.Rejected,
			UnitPrice:         models.Round2(it.UnitPrice),
			GSTRate:           models.Round2(it.GSTRate),
			NumberOfBoxes:     it.NumberOfBoxes,
			TotalValueExclGST: excl,
			TotalValueInclGST: incl,
		})
		header.TotalValueExclGST = header.TotalValueExclGST.Add(excl)
		header.TotalValueInclGST = header.TotalValueInclGST.Add(incl)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Vendor{}, p.CompanyID, "id = ?", in.VendorID, "vendor"); err != nil {
			return err
		}
		if err := mustExist(tx, &models.Brand{}, p.CompanyID, "id = ?", in.BrandID, "brand"); err != nil {
			return err
		}
		for _, it := range header.Items {
			if err := mustExist(tx, &models.SKU{}, p.CompanyID, "id = ?", it.SKUID, "sku "+it.SKUID); err != nil {
				return err
			}
		}
		if err := tx.Create(&header).Error; err != nil {
			return err
		}
		if status == models.IncomingStatusCompleted {
			if err := bookStock(tx, p.CompanyID, header.Items); err != nil {
				return err
			}
		}
		return writeAudit(tx, p, entityIncoming, header.ID, models.AuditActionCreate, "incoming inventory created", nil, header)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "incoming inventory")
	}

	if status == models.IncomingStatusCompleted {
		s.recordPriceHistory(ctx, &header)
	}
	s.publish(ctx, p.CompanyID, entityIncoming, events.ActionCreated, header.ID)
	return s.GetIncoming(ctx, p.CompanyID, header.ID)
}

func mustExist(tx *gorm.DB, model any, companyID, cond string, arg any, what string) error {
	var count int64
	if err := scoped(tx.Model(model), companyID).Where(cond, arg).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("%s not found", what)
	}
	return nil
}

// bookStock adds the received quantity of each line to its SKU.
func bookStock(tx *gorm.DB, companyID string, items []models.IncomingInventoryItem) error {
	for _, it := range items {
		if it.Received == 0 {
			continue
		}
		res := scoped(tx.Model(&models.SKU{}), companyID).
			Where("id = ?", it.SKUID).
			Update("current_stock", gorm.Expr("current_stock + ?", it.Received))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.NotFound("sku %s not found", it.SKUID)
		}
	}
	return nil
}

func (s *Service) ListIncoming(ctx context.Context, companyID string, f IncomingFilter) ([]models.IncomingInventory, int64, error) {
	q := scoped(s.db.WithContext(ctx).Model(&models.IncomingInventory{}), companyID)
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.VendorID != nil {
		q = q.Where("vendor_id = ?", *f.VendorID)
	}
	if f.From != nil {
		q = q.Where("invoice_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("invoice_date < ?", f.To.AddDate(0, 0, 1))
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		q = q.Where("LOWER(invoice_number) LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var headers []models.IncomingInventory
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	err := q.Preload("Vendor").Preload("Brand").
		Order("invoice_date DESC, id DESC").
		Find(&headers).Error
	return headers, total, err
}

// History lists headers that reached a final state.
func (s *Service) History(ctx context.Context, companyID string, f IncomingFilter) ([]models.IncomingInventory, int64, error) {
	f.Statuses = []models.IncomingStatus{models.IncomingStatusCompleted, models.IncomingStatusCancelled}
	return s.ListIncoming(ctx, companyID, f)
}

func (s *Service) GetIncoming(ctx context.Context, companyID string, id uint) (*models.IncomingInventory, error) {
	var header models.IncomingInventory
	err := scoped(s.db.WithContext(ctx), companyID).
		Preload("Vendor").
		Preload("Brand").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.SKU").
		First(&header, id).Error
	if err != nil {
		return nil, apperror.FromDB(err, "incoming inventory")
	}
	return &header, nil
}

func (s *Service) ListItems(ctx context.Context, companyID string, headerID uint) ([]models.IncomingInventoryItem, error) {
	if err := mustExist(s.db.WithContext(ctx), &models.IncomingInventory{}, companyID, "id = ?", headerID, "incoming inventory"); err != nil {
		return nil, err
	}
	var items []models.IncomingInventoryItem
	err := scoped(s.db.WithContext(ctx), companyID).
		Where("incoming_inventory_id = ?", headerID).
		Preload("SKU").
		Order("id").
		Find(&items).Error
	return items, err
}

// UpdateStatus moves a draft to completed or cancelled. Completion books the
// received quantities into SKU stock.
func (s *Service) UpdateStatus(ctx context.Context, p auth.Principal, id uint, next models.IncomingStatus) (*models.IncomingInventory, error) {
	var header models.IncomingInventory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, p.CompanyID).Preload("Items").First(&header, id).Error; err != nil {
			return err
		}
		if !header.Status.CanTransitionTo(next) {
			return apperror.Validation("cannot change status from %s to %s", header.Status, next)
		}
		res := tx.Model(&models.IncomingInventory{}).
			Where("id = ? AND status = ?", header.ID, header.Status).
			Update("status", next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("incoming inventory %d changed concurrently", header.ID)
		}
		before := header.Status
		header.Status = next
		if next == models.IncomingStatusCompleted {
			if err := bookStock(tx, p.CompanyID, header.Items); err != nil {
				return err
			}
		}
		return writeAudit(tx, p, entityIncoming, header.ID, models.AuditActionUpdate, "status changed",
			map[string]any{"status": before}, map[string]any{"status": next})
	})
	if err != nil {
		return nil, apperror.FromDB(err, "incoming inventory")
	}
	if next == models.IncomingStatusCompleted {
		s.recordPriceHistory(ctx, &header)
	}
	s.publish(ctx, p.CompanyID, entityIncoming, events.ActionUpdated, header.ID)
	return s.GetIncoming(ctx, p.CompanyID, header.ID)
}

// loadLine fetches a header and one of its lines inside tx. Lines of a
// cancelled header are frozen.
func loadLine(tx *gorm.DB, companyID string, headerID, itemID uint) (*models.IncomingInventory, *models.IncomingInventoryItem, error) {
	var header models.IncomingInventory
	if err := scoped(tx, companyID).First(&header, headerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.NotFound("incoming inventory %d not found", headerID)
		}
		return nil, nil, err
	}
	if header.Status == models.IncomingStatusCancelled {
		return nil, nil, apperror.Validation("incoming inventory %d is cancelled", headerID)
	}
	var item models.IncomingInventoryItem
	err := scoped(tx, companyID).
		Where("incoming_inventory_id = ?", headerID).
		First(&item, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperror.NotFound("item %d not found on incoming inventory %d", itemID, headerID)
		}
		return nil, nil, err
	}
	return &header, &item, nil
}

func quantities(it *models.IncomingInventoryItem) reconcile.Quantities {
	return reconcile.Quantities{Total: it.TotalQuantity, Received: it.Received, Short: it.Short, Rejected: it.Rejected}
}
