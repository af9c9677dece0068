package catalog

import (
	"strings"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/httpx"
	"inventory-backend/internal/importer"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type VendorRequest struct {
	Name          string `json:"name" validate:"required,max=150"`
	GSTNumber     string `json:"gstNumber" validate:"omitempty,len=15"`
	ContactPerson string `json:"contactPerson" validate:"max=100"`
	Phone         string `json:"phone" validate:"max=20"`
	Email         string `json:"email" validate:"omitempty,email"`
	Address       string `json:"address" validate:"max=255"`
}

type BrandRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"max=255"`
}

type CategoryRequest struct {
	Level    models.CategoryLevel `json:"level" validate:"required,oneof=product item sub"`
	ParentID *uint                `json:"parentId"`
	Name     string               `json:"name" validate:"required,max=150"`
}

type RenameCategoryRequest struct {
	Name string `json:"name" validate:"required,max=150"`
}

type SKURequest struct {
	ItemName          string  `json:"itemName" validate:"required,max=200"`
	ModelNumber       string  `json:"modelNumber" validate:"max=100"`
	HSNCode           string  `json:"hsnCode" validate:"max=20"`
	Unit              string  `json:"unit" validate:"max=20"`
	OpeningStock      int     `json:"openingStock" validate:"gte=0"`
	MinStockLevel     int     `json:"minStockLevel" validate:"gte=0"`
	UnitPrice         float64 `json:"unitPrice" validate:"gte=0"`
	GSTRate           float64 `json:"gstRate" validate:"gte=0,lte=100"`
	VendorID          *uint   `json:"vendorId"`
	BrandID           *uint   `json:"brandId"`
	ProductCategoryID *uint   `json:"productCategoryId"`
	ItemCategoryID    *uint   `json:"itemCategoryId"`
	SubCategoryID     *uint   `json:"subCategoryId"`
}

func (r SKURequest) input() SKUInput {
	return SKUInput{
		ItemName:          r.ItemName,
		ModelNumber:       r.ModelNumber,
		HSNCode:           r.HSNCode,
		Unit:              r.Unit,
		OpeningStock:      r.OpeningStock,
		MinStockLevel:     r.MinStockLevel,
		UnitPrice:         decimal.NewFromFloat(r.UnitPrice),
		GSTRate:           decimal.NewFromFloat(r.GSTRate),
		VendorID:          r.VendorID,
		BrandID:           r.BrandID,
		ProductCategoryID: r.ProductCategoryID,
		ItemCategoryID:    r.ItemCategoryID,
		SubCategoryID:     r.SubCategoryID,
	}
}

func (r VendorRequest) input() VendorInput {
	return VendorInput{
		Name:          r.Name,
		GSTNumber:     r.GSTNumber,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Email:         r.Email,
		Address:       r.Address,
	}
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func includeInactive(c *fiber.Ctx) bool {
	return c.QueryBool("includeInactive", false)
}

// ---- vendors ----

// POST /api/vendors
func (h *Handler) CreateVendor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		var body VendorRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		vendor, err := h.svc.CreateVendor(c.UserContext(), p, body.input())
		if err != nil {
			return err
		}
		return httpx.Created(c, vendor, "vendor created")
	}
}

// GET /api/vendors
func (h *Handler) ListVendors() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		vendors, err := h.svc.ListVendors(c.UserContext(), p.CompanyID, c.Query("search"), includeInactive(c))
		if err != nil {
			return err
		}
		return httpx.OK(c, vendors)
	}
}

// GET /api/vendors/:id
func (h *Handler) GetVendor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		vendor, err := h.svc.GetVendor(c.UserContext(), p.CompanyID, id)
		if err != nil {
			return err
		}
		return httpx.OK(c, vendor)
	}
}

// PUT /api/vendors/:id
func (h *Handler) UpdateVendor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body VendorRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		vendor, err := h.svc.UpdateVendor(c.UserContext(), p, id, body.input())
		if err != nil {
			return err
		}
		return httpx.OK(c, vendor)
	}
}

// DELETE /api/vendors/:id
func (h *Handler) DeactivateVendor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := h.svc.DeactivateVendor(c.UserContext(), p, id); err != nil {
			return err
		}
		return httpx.OK(c, fiber.Map{"id": id, "isActive": false})
	}
}

// ---- brands ----

// POST /api/brands
func (h *Handler) CreateBrand() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		var body BrandRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		brand, err := h.svc.CreateBrand(c.UserContext(), p, BrandInput{Name: body.Name, Description: body.Description})
		if err != nil {
			return err
		}
		return httpx.Created(c, brand, "brand created")
	}
}

// GET /api/brands
func (h *Handler) ListBrands() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		brands, err := h.svc.ListBrands(c.UserContext(), p.CompanyID, includeInactive(c))
		if err != nil {
			return err
		}
		return httpx.OK(c, brands)
	}
}

// GET /api/brands/:id
func (h *Handler) GetBrand() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		brand, err := h.svc.GetBrand(c.UserContext(), p.CompanyID, id)
		if err != nil {
			return err
		}
		return httpx.OK(c, brand)
	}
}

// PUT /api/brands/:id
func (h *Handler) UpdateBrand() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body BrandRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		brand, err := h.svc.UpdateBrand(c.UserContext(), p, id, BrandInput{Name: body.Name, Description: body.Description})
		if err != nil {
			return err
		}
		return httpx.OK(c, brand)
	}
}

// DELETE /api/brands/:id
func (h *Handler) DeactivateBrand() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := h.svc.DeactivateBrand(c.UserContext(), p, id); err != nil {
			return err
		}
		return httpx.OK(c, fiber.Map{"id": id, "isActive": false})
	}
}

// ---- categories ----

// POST /api/categories
func (h *Handler) CreateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		var body CategoryRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		category, err := h.svc.CreateCategory(c.UserContext(), p, CategoryInput{
			Level:    body.Level,
			ParentID: body.ParentID,
			Name:     body.Name,
		})
		if err != nil {
			return err
		}
		return httpx.Created(c, category, "category created")
	}
}

// GET /api/categories?level=item&parentId=3
func (h *Handler) ListCategories() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		parentID, err := httpx.QueryUint(c, "parentId")
		if err != nil {
			return err
		}
		level := models.CategoryLevel(strings.ToLower(c.Query("level")))
		if level != "" && !level.Valid() {
			return apperror.Validation("level must be one of [product item sub]")
		}
		categories, err := h.svc.ListCategories(c.UserContext(), p.CompanyID, CategoryFilter{
			Level:           level,
			ParentID:        parentID,
			IncludeInactive: includeInactive(c),
		})
		if err != nil {
			return err
		}
		return httpx.OK(c, categories)
	}
}

// GET /api/categories/:id
func (h *Handler) GetCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		category, err := h.svc.GetCategory(c.UserContext(), p.CompanyID, id)
		if err != nil {
			return err
		}
		return httpx.OK(c, category)
	}
}

// PUT /api/categories/:id
func (h *Handler) UpdateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body RenameCategoryRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		category, err := h.svc.UpdateCategory(c.UserContext(), p, id, body.Name)
		if err != nil {
			return err
		}
		return httpx.OK(c, category)
	}
}

// DELETE /api/categories/:id
func (h *Handler) DeactivateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := h.svc.DeactivateCategory(c.UserContext(), p, id); err != nil {
			return err
		}
		return httpx.OK(c, fiber.Map{"id": id, "isActive": false})
	}
}

// ---- skus ----

// POST /api/skus
func (h *Handler) CreateSKU() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		var body SKURequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		sku, err := h.svc.CreateSKU(c.UserContext(), p, body.input())
		if err != nil {
			return err
		}
		return httpx.Created(c, sku, "sku created")
	}
}

// GET /api/skus?search=&categoryId=&vendorId=&brandId=&lowStock=true
func (h *Handler) ListSKUs() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		f := SKUFilter{
			Search:          c.Query("search"),
			LowStock:        c.QueryBool("lowStock", false),
			IncludeInactive: includeInactive(c),
		}
		if f.CategoryID, err = httpx.QueryUint(c, "categoryId"); err != nil {
			return err
		}
		if f.VendorID, err = httpx.QueryUint(c, "vendorId"); err != nil {
			return err
		}
		if f.BrandID, err = httpx.QueryUint(c, "brandId"); err != nil {
			return err
		}
		page := httpx.PageFromQuery(c)
		f.Limit, f.Offset = page.Limit, page.Offset()

		skus, total, err := h.svc.ListSKUs(c.UserContext(), p.CompanyID, f)
		if err != nil {
			return err
		}
		return httpx.List(c, skus, page, total)
	}
}

// GET /api/skus/:id
func (h *Handler) GetSKU() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		sku, err := h.svc.GetSKU(c.UserContext(), p.CompanyID, c.Params("id"))
		if err != nil {
			return err
		}
		return httpx.OK(c, sku)
	}
}

// PUT /api/skus/:id
func (h *Handler) UpdateSKU() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		var body SKURequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		sku, err := h.svc.UpdateSKU(c.UserContext(), p, c.Params("id"), body.input())
		if err != nil {
			return err
		}
		return httpx.OK(c, sku)
	}
}

// DELETE /api/skus/:id
func (h *Handler) DeactivateSKU() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id := c.Params("id")
		if err := h.svc.DeactivateSKU(c.UserContext(), p, id); err != nil {
			return err
		}
		return httpx.OK(c, fiber.Map{"id": id, "isActive": false})
	}
}

// POST /api/skus/import (multipart, field "file")
func (h *Handler) ImportSKUs() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return apperror.Validation("file is required")
		}
		if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
			return apperror.Validation("only .xlsx files are allowed")
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()

		sheet, err := importer.Read(f)
		if err != nil {
			return err
		}
		result, err := h.svc.ImportSKUs(c.UserContext(), p, sheet)
		if err != nil {
			return err
		}
		return httpx.OK(c, result)
	}
}
