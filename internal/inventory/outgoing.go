package inventory

import (
	"context"
	"strings"
	"time"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OutgoingItemInput struct {
	SKUID     string
	Quantity  int
	UnitPrice decimal.Decimal
}

type OutgoingInput struct {
	DocumentNumber string
	DocumentDate   time.Time
	CustomerName   string
	Destination    string
	Remarks        string
	Items          []OutgoingItemInput
}

type OutgoingFilter struct {
	From   *time.Time
	To     *time.Time
	Search string
	Limit  int
	Offset int
}

// CreateOutgoing dispatches stock. Every line must be covered by the SKU's
// current stock or the whole document is rejected.
func (s *Service) CreateOutgoing(ctx context.Context, p auth.Principal, in OutgoingInput) (*models.OutgoingInventory, error) {
	if strings.TrimSpace(in.DocumentNumber) == "" {
		return nil, apperror.Validation("documentNumber is required")
	}
	if len(in.Items) == 0 {
		return nil, apperror.Validation("items must not be empty")
	}
	doc := models.OutgoingInventory{
		CompanyID:      p.CompanyID,
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		DocumentDate:   in.DocumentDate,
		CustomerName:   strings.TrimSpace(in.CustomerName),
		Destination:    strings.TrimSpace(in.Destination),
		Remarks:        in.Remarks,
		TotalValue:     decimal.Zero,
		CreatedBy:      p.UserID,
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.SKUID) == "" {
			return nil, apperror.Validation("items[%d]: skuId is required", i)
		}
		if it.Quantity <= 0 {
			return nil, apperror.Validation("items[%d]: quantity must be greater than 0", i)
		}
		if it.UnitPrice.IsNegative() {
			return nil, apperror.Validation("items[%d]: unitPrice cannot be negative", i)
		}
		price := models.Round2(it.UnitPrice)
		value := models.Round2(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		doc.Items = append(doc.Items, models.OutgoingInventoryItem{
			CompanyID:  p.CompanyID,
			SKUID:      strings.TrimSpace(it.SKUID),
			Quantity:   it.Quantity,
			UnitPrice:  price,
			TotalValue: value,
		})
		doc.TotalValue = doc.TotalValue.Add(value)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range doc.Items {
			if err := mustExist(tx, &models.SKU{}, p.CompanyID, "id = ?", it.SKUID, "sku "+it.SKUID); err != nil {
				return err
			}
			if err := takeStock(tx, p.CompanyID, it.SKUID, it.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, entityOutgoing, doc.ID, models.AuditActionCreate, "outgoing inventory created", nil, doc)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "outgoing inventory")
	}
	s.publish(ctx, p.CompanyID, entityOutgoing, events.ActionCreated, doc.ID)
	for _, it := range doc.Items {
		s.publish(ctx, p.CompanyID, entitySKU, events.ActionUpdated, it.SKUID)
	}
	return s.GetOutgoing(ctx, p.CompanyID, doc.ID)
}

func (s *Service) ListOutgoing(ctx context.Context, companyID string, f OutgoingFilter) ([]models.OutgoingInventory, int64, error) {
	q := scoped(s.db.WithContext(ctx).Model(&models.OutgoingInventory{}), companyID)
	if f.From != nil {
		q = q.Where("document_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("document_date < ?", f.To.AddDate(0, 0, 1))
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		like := "%" + search + "%"
		q = q.Where("(LOWER(document_number) LIKE ? OR LOWER(customer_name) LIKE ?)", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var docs []models.OutgoingInventory
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	err := q.Order("document_date DESC, id DESC").Find(&docs).Error
	return docs, total, err
}

func (s *Service) GetOutgoing(ctx context.Context, companyID string, id uint) (*models.OutgoingInventory, error) {
	var doc models.OutgoingInventory
	err := scoped(s.db.WithContext(ctx), companyID).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.SKU").
		First(&doc, id).Error
	if err != nil {
		return nil, apperror.FromDB(err, "outgoing inventory")
	}
	return &doc, nil
}
