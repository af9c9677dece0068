package catalog

import (
	"context"
	"errors"
	"strings"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/ids"
	"inventory-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const skuIDAttempts = 5

type SKUInput struct {
	ItemName          string
	ModelNumber       string
	HSNCode           string
	Unit              string
	OpeningStock      int
	MinStockLevel     int
	UnitPrice         decimal.Decimal
	GSTRate           decimal.Decimal
	VendorID          *uint
	BrandID           *uint
	ProductCategoryID *uint
	ItemCategoryID    *uint
	SubCategoryID     *uint
}

type SKUFilter struct {
	Search          string
	CategoryID      *uint
	VendorID        *uint
	BrandID         *uint
	LowStock        bool
	IncludeInactive bool
	Limit           int
	Offset          int
}

func (s *Service) CreateSKU(ctx context.Context, p auth.Principal, in SKUInput) (*models.SKU, error) {
	var sku models.SKU
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := createSKU(tx, p.CompanyID, in)
		if err != nil {
			return err
		}
		sku = *created
		return writeAudit(tx, p, "sku", sku.ID, models.AuditActionCreate, "sku created", nil, sku)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "sku")
	}
	s.publish(ctx, p, "sku", events.ActionCreated, sku.ID)
	return &sku, nil
}

func createSKU(tx *gorm.DB, companyID string, in SKUInput) (*models.SKU, error) {
	if err := checkSKUInput(tx, companyID, in); err != nil {
		return nil, err
	}
	model := modelNumber(in.ModelNumber)
	if model != nil {
		taken, err := modelNumberTaken(tx, companyID, *model, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Conflict("model number %q already exists", *model)
		}
	}
	id, err := freeSKUID(tx, companyID)
	if err != nil {
		return nil, err
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = "pcs"
	}
	sku := models.SKU{
		ID:                id,
		CompanyID:         companyID,
		ItemName:          strings.TrimSpace(in.ItemName),
		ModelNumber:       model,
		HSNCode:           strings.TrimSpace(in.HSNCode),
		Unit:              unit,
		CurrentStock:      in.OpeningStock,
		MinStockLevel:     in.MinStockLevel,
		UnitPrice:         models.Round2(in.UnitPrice),
		GSTRate:           models.Round2(in.GSTRate),
		VendorID:          in.VendorID,
		BrandID:           in.BrandID,
		ProductCategoryID: in.ProductCategoryID,
		ItemCategoryID:    in.ItemCategoryID,
		SubCategoryID:     in.SubCategoryID,
		IsActive:          true,
	}
	if err := tx.Create(&sku).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

// freeSKUID draws random IDs until one is unused.
func freeSKUID(tx *gorm.DB, companyID string) (string, error) {
	for i := 0; i < skuIDAttempts; i++ {
		id, err := ids.SKUID(companyID)
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.SKU{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", errors.New("could not allocate a free sku id")
}

func modelNumber(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func modelNumberTaken(tx *gorm.DB, companyID, model, exceptID string) (bool, error) {
	q := scoped(tx.Model(&models.SKU{}), companyID).Where("model_number = ?", model)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func checkSKUInput(tx *gorm.DB, companyID string, in SKUInput) error {
	if strings.TrimSpace(in.ItemName) == "" {
		return apperror.Validation("itemName is required")
	}
	if in.OpeningStock < 0 || in.MinStockLevel < 0 {
		return apperror.Validation("stock levels cannot be negative")
	}
	if in.UnitPrice.IsNegative() {
		return apperror.Validation("unitPrice cannot be negative")
	}
	if in.GSTRate.IsNegative() || in.GSTRate.GreaterThan(decimal.NewFromInt(100)) {
		return apperror.Validation("gstRate must be between 0 and 100")
	}
	if err := exists(tx, &models.Vendor{}, companyID, in.VendorID, "vendor"); err != nil {
		return err
	}
	if err := exists(tx, &models.Brand{}, companyID, in.BrandID, "brand"); err != nil {
		return err
	}
	return checkCategoryPath(tx, companyID, in.ProductCategoryID, in.ItemCategoryID, in.SubCategoryID)
}

func exists(tx *gorm.DB, model any, companyID string, id *uint, what string) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := scoped(tx.Model(model), companyID).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("%s %d not found", what, *id)
	}
	return nil
}

// checkCategoryPath verifies each set category has the right level and hangs
// under the category set one level above it.
func checkCategoryPath(tx *gorm.DB, companyID string, product, item, sub *uint) error {
	path := []struct {
		id     *uint
		level  models.CategoryLevel
		parent *uint
	}{
		{product, models.CategoryLevelProduct, nil},
		{item, models.CategoryLevelItem, product},
		{sub, models.CategoryLevelSub, item},
	}
	for _, step := range path {
		if step.id == nil {
			continue
		}
		var c models.Category
		if err := scoped(tx, companyID).First(&c, *step.id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("category %d not found", *step.id)
			}
			return err
		}
		if c.Level != step.level {
			return apperror.Validation("category %d is not a %s category", c.ID, step.level)
		}
		if step.parent != nil && (c.ParentID == nil || *c.ParentID != *step.parent) {
			return apperror.Validation("category %d does not belong to category %d", c.ID, *step.parent)
		}
	}
	return nil
}

func (s *Service) ListSKUs(ctx context.Context, companyID string, f SKUFilter) ([]models.SKU, int64, error) {
	q := scoped(s.db.WithContext(ctx).Model(&models.SKU{}), companyID)
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if search := strings.ToLower(strings.TrimSpace(f.Search)); search != "" {
		like := "%" + search + "%"
		q = q.Where("(LOWER(item_name) LIKE ? OR LOWER(model_number) LIKE ? OR LOWER(id) LIKE ?)", like, like, like)
	}
	if f.CategoryID != nil {
		id := *f.CategoryID
		q = q.Where("(product_category_id = ? OR item_category_id = ? OR sub_category_id = ?)", id, id, id)
	}
	if f.VendorID != nil {
		q = q.Where("vendor_id = ?", *f.VendorID)
	}
	if f.BrandID != nil {
		q = q.Where("brand_id = ?", *f.BrandID)
	}
	if f.LowStock {
		q = q.Where("min_stock_level > 0 AND current_stock < min_stock_level")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var skus []models.SKU
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	err := q.Order("item_name, id").Find(&skus).Error
	return skus, total, err
}

func (s *Service) GetSKU(ctx context.Context, companyID, id string) (*models.SKU, error) {
	var sku models.SKU
	if err := scoped(s.db.WithContext(ctx), companyID).Where("id = ?", id).First(&sku).Error; err != nil {
		return nil, apperror.FromDB(err, "sku")
	}
	return &sku, nil
}

// UpdateSKU replaces the descriptive fields. Stock only moves through
// inventory documents, so OpeningStock is ignored here.
func (s *Service) UpdateSKU(ctx context.Context, p auth.Principal, id string, in SKUInput) (*models.SKU, error) {
	var sku models.SKU
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := scoped(tx, p.CompanyID).Where("id = ?", id).First(&sku).Error; err != nil {
			return err
		}
		in.OpeningStock = 0
		if err := checkSKUInput(tx, p.CompanyID, in); err != nil {
			return err
		}
		model := modelNumber(in.ModelNumber)
		if model != nil {
			taken, err := modelNumberTaken(tx, p.CompanyID, *model, sku.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperror.Conflict("model number %q already exists", *model)
			}
		}
		before := sku
		sku.ItemName = strings.TrimSpace(in.ItemName)
		sku.ModelNumber = model
		sku.HSNCode = strings.TrimSpace(in.HSNCode)
		if unit := strings.TrimSpace(in.Unit); unit != "" {
			sku.Unit = unit
		}
		sku.MinStockLevel = in.MinStockLevel
		sku.UnitPrice = models.Round2(in.UnitPrice)
		sku.GSTRate = models.Round2(in.GSTRate)
		sku.VendorID = in.VendorID
		sku.BrandID = in.BrandID
		sku.ProductCategoryID = in.ProductCategoryID
		sku.ItemCategoryID = in.ItemCategoryID
		sku.SubCategoryID = in.SubCategoryID
		if err := tx.Save(&sku).Error; err != nil {
			return err
		}
		return writeAudit(tx, p, "sku", sku.ID, models.AuditActionUpdate, "sku updated", before, sku)
	})
	if err != nil {
		return nil, apperror.FromDB(err, "sku")
	}
	s.publish(ctx, p, "sku", events.ActionUpdated, sku.ID)
	return &sku, nil
}

func (s *Service) DeactivateSKU(ctx context.Context, p auth.Principal, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := scoped(tx.Model(&models.SKU{}), p.CompanyID).Where("id = ?", id).Update("is_active", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return writeAudit(tx, p, "sku", id, models.AuditActionDelete, "sku deactivated", nil, nil)
	})
	if err != nil {
		return apperror.FromDB(err, "sku")
	}
	s.publish(ctx, p, "sku", events.ActionDeleted, id)
	return nil
}
