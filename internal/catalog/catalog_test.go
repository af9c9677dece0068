package catalog

import (
	"context"
	"fmt"
	"testing"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/database/dbtest"
	"inventory-backend/internal/events"
	"inventory-backend/internal/ids"
	"inventory-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type env struct {
	db  *gorm.DB
	svc *Service
	rec *events.Recorder
	fx  *dbtest.Fixture
	p   auth.Principal
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := dbtest.New(t)
	rec := &events.Recorder{}
	fx := dbtest.Seed(t, db, "ABCDEF")
	return &env{
		db:  db,
		svc: NewService(db, rec),
		rec: rec,
		fx:  fx,
		p:   auth.Principal{UserID: fx.Admin.ID, CompanyID: "ABCDEF", Role: models.RoleAdmin},
	}
}

func TestVendorLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	v, err := e.svc.CreateVendor(ctx, e.p, VendorInput{Name: "Bharat Cables", GSTNumber: "27aapfu0939f1zv"})
	if err != nil {
		t.Fatal(err)
	}
	if v.GSTNumber != "27AAPFU0939F1ZV" || !v.IsActive {
		t.Errorf("vendor = %+v", v)
	}

	if _, err := e.svc.CreateVendor(ctx, e.p, VendorInput{Name: "bharat cables"}); apperror.KindOf(err) != apperror.KindConflict {
		t.Errorf("duplicate name: err = %v, want conflict", err)
	}

	// same name in another company is fine
	dbtest.Seed(t, e.db, "ZZZZZZ")
	other := auth.Principal{UserID: 1, CompanyID: "ZZZZZZ"}
	if _, err := e.svc.CreateVendor(ctx, other, VendorInput{Name: "Bharat Cables"}); err != nil {
		t.Errorf("other company: %v", err)
	}

	if _, err := e.svc.UpdateVendor(ctx, e.p, v.ID, VendorInput{Name: "Acme Supplies"}); apperror.KindOf(err) != apperror.KindConflict {
		t.Errorf("rename onto existing: err = %v, want conflict", err)
	}
	updated, err := e.svc.UpdateVendor(ctx, e.p, v.ID, VendorInput{Name: "Bharat Cables Ltd", Phone: "999"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Bharat Cables Ltd" || updated.Phone != "999" {
		t.Errorf("updated = %+v", updated)
	}

	if err := e.svc.DeactivateVendor(ctx, e.p, v.ID); err != nil {
		t.Fatal(err)
	}
	active, _ := e.svc.ListVendors(ctx, "ABCDEF", "", false)
	all, _ := e.svc.ListVendors(ctx, "ABCDEF", "", true)
	if len(active) != 1 || len(all) != 2 {
		t.Errorf("active = %d, all = %d, want 1 and 2", len(active), len(all))
	}

	if _, err := e.svc.GetVendor(ctx, "ZZZZZZ", v.ID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("cross tenant get: err = %v, want not found", err)
	}
	if err := e.svc.DeactivateVendor(ctx, other, v.ID); apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("cross tenant deactivate: err = %v, want not found", err)
	}

	var logs int64
	e.db.Model(&models.AuditLog{}).Where("entity_type = ? AND entity_id = ?", "vendor", fmt.Sprint(v.ID)).Count(&logs)
	if logs != 3 {
		t.Errorf("audit rows = %d, want 3", logs)
	}
	if n := len(e.rec.Events()); n == 0 {
		t.Error("no change events published")
	}
}

func TestCategoryHierarchy(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	product, err := e.svc.CreateCategory(ctx, e.p, CategoryInput{Level: models.CategoryLevelProduct, Name: "Electrical"})
	if err != nil {
		t.Fatal(err)
	}
	item, err := e.svc.CreateCategory(ctx, e.p, CategoryInput{Level: models.CategoryLevelItem, ParentID: &product.ID, Name: "Wires"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.svc.CreateCategory(ctx, e.p, CategoryInput{Level: models.CategoryLevelSub, ParentID: &item.ID, Name: "Copper"}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   CategoryInput
		want apperror.Kind
	}{
		{"product with parent", CategoryInput{Level: models.CategoryLevelProduct, ParentID: &product.ID, Name: "X"}, apperror.KindValidation},
		{"item without parent", CategoryInput{Level: models.CategoryLevelItem, Name: "X"}, apperror.KindValidation},
		{"sub under product", CategoryInput{Level: models.CategoryLevelSub, ParentID: &product.ID, Name: "X"}, apperror.KindValidation},
		{"unknown parent", CategoryInput{Level: models.CategoryLevelItem, ParentID: ptr(uint(999)), Name: "X"}, apperror.KindNotFound},
		{"bad level", CategoryInput{Level: "shelf", Name: "X"}, apperror.KindValidation},
		{"duplicate sibling", CategoryInput{Level: models.CategoryLevelItem, ParentID: &product.ID, Name: "WIRES"}, apperror.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.CreateCategory(ctx, e.p, tt.in)
			if got := apperror.KindOf(err); err == nil || got != tt.want {
				t.Errorf("err = %v, want kind %d", err, tt.want)
			}
		})
	}

	items, err := e.svc.ListCategories(ctx, "ABCDEF", CategoryFilter{Level: models.CategoryLevelItem, ParentID: &product.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Name != "Wires" {
		t.Errorf("items = %+v", items)
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreateSKU(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	sku, err := e.svc.CreateSKU(ctx, e.p, SKUInput{
		ItemName:      "LED Panel",
		ModelNumber:   "LP-18",
		UnitPrice:     decimal.RequireFromString("499.999"),
		GSTRate:       decimal.NewFromInt(18),
		MinStockLevel: 5,
		VendorID:      &e.fx.Vendor.ID,
		BrandID:       &e.fx.Brand.ID,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(sku.ID) != ids.SKUIDLength || sku.ID[:6] != "ABCDEF" {
		t.Errorf("sku id = %q", sku.ID)
	}
	if !sku.UnitPrice.Equal(decimal.RequireFromString("500")) {
		t.Errorf("unit price = %s, want 500", sku.UnitPrice)
	}
	if sku.Unit != "pcs" {
		t.Errorf("unit = %q, want pcs", sku.Unit)
	}

	_, err = e.svc.CreateSKU(ctx, e.p, SKUInput{ItemName: "Other", ModelNumber: "LP-18"})
	if apperror.KindOf(err) != apperror.KindConflict {
		t.Errorf("duplicate model: err = %v, want conflict", err)
	}
	_, err = e.svc.CreateSKU(ctx, e.p, SKUInput{ItemName: "Other", VendorID: ptr(uint(999))})
	if apperror.KindOf(err) != apperror.KindNotFound {
		t.Errorf("unknown vendor: err = %v, want not found", err)
	}
	_, err = e.svc.CreateSKU(ctx, e.p, SKUInput{ItemName: "Other", GSTRate: decimal.NewFromInt(101)})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("gst 101: err = %v, want validation", err)
	}

	// an empty model number never collides
	for i := 0; i < 2; i++ {
		if _, err := e.svc.CreateSKU(ctx, e.p, SKUInput{ItemName: "Loose item"}); err != nil {
			t.Fatalf("sku without model number #%d: %v", i, err)
		}
	}
}

func TestCreateSKUChecksCategoryPath(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p1, _ := e.svc.CreateCategory(ctx, e.p, CategoryInput{Level: models.CategoryLevelProduct, Name: "Electrical"})
	p2, _ := e.svc.CreateCategory(ctx, e.p, CategoryInput{Level: models.CategoryLevelProduct, Name: "Plumbing"})
	item, _ := e.svc.CreateCategory(ctx, e.p, CategoryInput{Level: models.CategoryLevelItem, ParentID: &p1.ID, Name: "Wires"})

	_, err := e.svc.CreateSKU(ctx, e.p, SKUInput{ItemName: "Wire", ProductCategoryID: &p2.ID, ItemCategoryID: &item.ID})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("mismatched path: err = %v, want validation", err)
	}
	_, err = e.svc.CreateSKU(ctx, e.p, SKUInput{ItemName: "Wire", ProductCategoryID: &item.ID})
	if apperror.KindOf(err) != apperror.KindValidation {
		t.Errorf("item as product: err = %v, want validation", err)
	}
	if _, err := e.svc.CreateSKU(ctx, e.p, SKUInput{ItemName: "Wire", ProductCategoryID: &p1.ID, ItemCategoryID: &item.ID}); err != nil {
		t.Errorf("valid path: %v", err)
	}
}

func TestListSKUs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	low := e.fx.SKUs[0]
	e.db.Model(&models.SKU{}).Where("id = ?", low.ID).Updates(map[string]any{"min_stock_level": 10, "current_stock": 3})

	tests := []struct {
		name string
		f    SKUFilter
		want int
	}{
		{"all", SKUFilter{}, 3},
		{"search item name", SKUFilter{Search: "copper"}, 1},
		{"search model number", SKUFilter{Search: "m-2"}, 1},
		{"low stock", SKUFilter{LowStock: true}, 1},
		{"vendor", SKUFilter{VendorID: &e.fx.Vendor.ID}, 3},
		{"unknown brand", SKUFilter{BrandID: ptr(uint(999))}, 0},
		{"paged", SKUFilter{Limit: 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skus, total, err := e.svc.ListSKUs(ctx, "ABCDEF", tt.f)
			if err != nil {
				t.Fatal(err)
			}
			if len(skus) != tt.want {
				t.Errorf("len = %d, want %d", len(skus), tt.want)
			}
			if tt.f.Limit == 0 && total != int64(tt.want) {
				t.Errorf("total = %d, want %d", total, tt.want)
			}
		})
	}
}

func TestUpdateSKUKeepsStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	sku := e.fx.SKUs[0]
	e.db.Model(&models.SKU{}).Where("id = ?", sku.ID).Update("current_stock", 40)

	updated, err := e.svc.UpdateSKU(ctx, e.p, sku.ID, SKUInput{ItemName: "Copper Wire 2.5mm", ModelNumber: "M-1", OpeningStock: 999})
	if err != nil {
		t.Fatal(err)
	}
	if updated.CurrentStock != 40 {
		t.Errorf("current stock = %d, want 40", updated.CurrentStock)
	}
	if _, err := e.svc.UpdateSKU(ctx, e.p, sku.ID, SKUInput{ItemName: "x", ModelNumber: "M-2"}); apperror.KindOf(err) != apperror.KindConflict {
		t.Errorf("model clash: err = %v, want conflict", err)
	}
}
