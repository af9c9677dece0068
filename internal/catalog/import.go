package catalog

import (
	"context"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/events"
	"inventory-backend/internal/importer"
	"inventory-backend/internal/models"

	"gorm.io/gorm"
)

type ImportResult struct {
	Imported int                 `json:"imported"`
	Skipped  int                 `json:"skipped"`
	Errors   []importer.RowError `json:"errors"`
}

// ImportSKUs stores each parsed row in its own transaction so one bad line
// does not discard the rest. Rows whose model number already exists are
// skipped; vendors, brands and categories named by a row are created when
// missing.
func (s *Service) ImportSKUs(ctx context.Context, p auth.Principal, sheet *importer.Sheet) (*ImportResult, error) {
	result := &ImportResult{Errors: append([]importer.RowError{}, sheet.Errors...)}
	for _, row := range sheet.Rows {
		skipped := false
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if model := modelNumber(row.ModelNumber); model != nil {
				taken, err := modelNumberTaken(tx, p.CompanyID, *model, "")
				if err != nil {
					return err
				}
				if taken {
					skipped = true
					return nil
				}
			}
			in, err := resolveRow(tx, p.CompanyID, row)
			if err != nil {
				return err
			}
			sku, err := createSKU(tx, p.CompanyID, in)
			if err != nil {
				return err
			}
			return writeAudit(tx, p, "sku", sku.ID, models.AuditActionCreate, "sku imported", nil, sku)
		})
		err = apperror.FromDB(err, "sku")
		switch {
		case err != nil:
			if apperror.KindOf(err) == apperror.KindInternal {
				return nil, err
			}
			result.Errors = append(result.Errors, importer.RowError{Line: row.Line, Message: err.Error()})
		case skipped:
			result.Skipped++
		default:
			result.Imported++
		}
	}
	if result.Imported > 0 {
		s.publish(ctx, p, "sku", events.ActionCreated, "import")
	}
	return result, nil
}

func resolveRow(tx *gorm.DB, companyID string, row importer.Row) (SKUInput, error) {
	in := SKUInput{
		ItemName:      row.ItemName,
		ModelNumber:   row.ModelNumber,
		HSNCode:       row.HSNCode,
		Unit:          row.Unit,
		OpeningStock:  row.OpeningStock,
		MinStockLevel: row.MinStockLevel,
		UnitPrice:     row.UnitPrice,
		GSTRate:       row.GSTRate,
	}
	if row.Vendor != "" {
		v, err := FindOrCreateVendor(tx, companyID, row.Vendor)
		if err != nil {
			return in, err
		}
		in.VendorID = &v.ID
	}
	if row.Brand != "" {
		b, err := FindOrCreateBrand(tx, companyID, row.Brand)
		if err != nil {
			return in, err
		}
		in.BrandID = &b.ID
	}

	path := []struct {
		name  string
		level models.CategoryLevel
		dst   **uint
	}{
		{row.ProductCategory, models.CategoryLevelProduct, &in.ProductCategoryID},
		{row.ItemCategory, models.CategoryLevelItem, &in.ItemCategoryID},
		{row.SubCategory, models.CategoryLevelSub, &in.SubCategoryID},
	}
	var parent *uint
	for _, step := range path {
		if step.name == "" {
			break
		}
		c, err := FindOrCreateCategory(tx, companyID, step.level, parent, step.name)
		if err != nil {
			return in, err
		}
		id := c.ID
		*step.dst = &id
		parent = &id
	}
	return in, nil
}
