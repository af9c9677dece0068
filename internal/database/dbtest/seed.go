package dbtest

import (
	"fmt"
	"testing"

	"inventory-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Fixture is a company with an admin, one vendor, one brand and a few SKUs.
type Fixture struct {
	Company models.Company
	Admin   models.User
	Vendor  models.Vendor
	Brand   models.Brand
	SKUs    []models.SKU
}

// Seed creates a fixture for companyID (six uppercase letters).
func Seed(t *testing.T, db *gorm.DB, companyID string) *Fixture {
	t.Helper()
	f := &Fixture{
		Company: models.Company{
			ID:        companyID,
			Name:      "Company " + companyID,
			GSTNumber: fmt.Sprintf("27%sZZ1234A1Z", companyID)[:15],
		},
	}
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed %s: %v", companyID, err)
		}
	}
	must(db.Create(&f.Company).Error)

	f.Admin = models.User{
		CompanyID:    companyID,
		Name:         "Admin",
		Email:        fmt.Sprintf("admin@%s.test", companyID),
		PasswordHash: "x",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	must(db.Create(&f.Admin).Error)

	f.Vendor = models.Vendor{CompanyID: companyID, Name: "Acme Supplies", IsActive: true}
	must(db.Create(&f.Vendor).Error)
	f.Brand = models.Brand{CompanyID: companyID, Name: "Acme", IsActive: true}
	must(db.Create(&f.Brand).Error)

	for i, name := range []string{"Copper Wire", "PVC Conduit", "Switch Board"} {
		model := fmt.Sprintf("M-%d", i+1)
		sku := models.SKU{
			ID:          fmt.Sprintf("%sSKU%05d", companyID, i+1),
			CompanyID:   companyID,
			ItemName:    name,
			ModelNumber: &model,
			Unit:        "pcs",
			UnitPrice:   decimal.NewFromInt(int64(10 * (i + 1))),
			GSTRate:     decimal.NewFromInt(18),
			VendorID:    &f.Vendor.ID,
			BrandID:     &f.Brand.ID,
			IsActive:    true,
		}
		must(db.Create(&sku).Error)
		f.SKUs = append(f.SKUs, sku)
	}
	return f
}
