package inventory

import (
	"encoding/json"
	"strings"
	"time"

	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/httpx"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type IncomingItemRequest struct {
	SKUID         string  `json:"skuId" validate:"required,max=14"`
	TotalQuantity int     `json:"totalQuantity" validate:"gte=1"`
	Received      int     `json:"received" validate:"gte=0"`
	UnitPrice     float64 `json:"unitPrice" validate:"gte=0"`
	GSTRate       float64 `json:"gstRate" validate:"gte=0,lte=100"`
	NumberOfBoxes int     `json:"numberOfBoxes" validate:"gte=0"`
}

type CreateIncomingRequest struct {
	InvoiceNumber string                `json:"invoiceNumber" validate:"required,max=50"`
	InvoiceDate   string                `json:"invoiceDate" validate:"required,datetime=2006-01-02"`
	ChallanNumber string                `json:"challanNumber" validate:"max=50"`
	ChallanDate   string                `json:"challanDate" validate:"omitempty,datetime=2006-01-02"`
	ReceivingDate string                `json:"receivingDate" validate:"omitempty,datetime=2006-01-02"`
	DocketNumber  string                `json:"docketNumber" validate:"max=50"`
	Remarks       string                `json:"remarks" validate:"max=500"`
	VendorID      uint                  `json:"vendorId" validate:"required"`
	BrandID       uint                  `json:"brandId" validate:"required"`
	Status        string                `json:"status" validate:"omitempty,oneof=draft completed"`
	Items         []IncomingItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft completed cancelled"`
}

type MoveRequest struct {
	ItemID         uint   `json:"itemId" validate:"required"`
	Quantity       int    `json:"quantity" validate:"gt=0"`
	InspectionDate string `json:"inspectionDate" validate:"omitempty,datetime=2006-01-02"`
	Reason         string `json:"reason" validate:"max=30"`
}

type UpdateShortItemRequest struct {
	ItemID        uint   `json:"itemId" validate:"required"`
	Short         *int   `json:"short" validate:"required,gte=0"`
	ChallanNumber string `json:"challanNumber" validate:"max=50"`
	ChallanDate   string `json:"challanDate" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateItemRejectedShortRequest struct {
	ItemID        uint    `json:"itemId" validate:"required"`
	Short         *int    `json:"short" validate:"omitempty,gte=0"`
	Rejected      *int    `json:"rejected" validate:"omitempty,gte=0"`
	ChallanNumber *string `json:"challanNumber" validate:"omitempty,max=50"`
	ChallanDate   string  `json:"challanDate" validate:"omitempty,datetime=2006-01-02"`
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// bindNoReceived parses a line update body. Received is fixed at creation, so
// a body that names it at all, null included, is refused outright.
func bindNoReceived(c *fiber.Ctx, dst any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return apperror.Validation("invalid request body")
	}
	if _, ok := fields["received"]; ok {
		return apperror.Validation("received cannot be updated")
	}
	return httpx.Bind(c, dst)
}

func mustDate(field, s string) (time.Time, error) {
	d, err := httpx.ParseDate(field, s)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, apperror.Validation("%s is required", field)
	}
	return *d, nil
}

// dateRange reads ?from=&to= (YYYY-MM-DD, both inclusive).
func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if from, err = httpx.ParseDate("from", c.Query("from")); err != nil {
		return nil, nil, err
	}
	if to, err = httpx.ParseDate("to", c.Query("to")); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

// POST /api/inventory/incoming
func (h *Handler) CreateIncoming() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		var body CreateIncomingRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		in := IncomingInput{
			InvoiceNumber: body.InvoiceNumber,
			ChallanNumber: body.ChallanNumber,
			DocketNumber:  body.DocketNumber,
			Remarks:       body.Remarks,
			VendorID:      body.VendorID,
			BrandID:       body.BrandID,
			Status:        models.IncomingStatus(body.Status),
		}
		if in.InvoiceDate, err = mustDate("invoiceDate", body.InvoiceDate); err != nil {
			return err
		}
		if in.ChallanDate, err = httpx.ParseDate("challanDate", body.ChallanDate); err != nil {
			return err
		}
		if in.ReceivingDate, err = httpx.ParseDate("receivingDate", body.ReceivingDate); err != nil {
			return err
		}
		for _, it := range body.Items {
			in.Items = append(in.Items, IncomingItemInput{
				SKUID:         it.SKUID,
				TotalQuantity: it.TotalQuantity,
				Received:      it.Received,
				UnitPrice:     decimal.NewFromFloat(it.UnitPrice),
				GSTRate:       decimal.NewFromFloat(it.GSTRate),
				NumberOfBoxes: it.NumberOfBoxes,
			})
		}

		header, err := h.svc.CreateIncoming(c.UserContext(), p, in)
		if err != nil {
			return err
		}
		return httpx.Created(c, header, "incoming inventory created")
	}
}

func incomingFilter(c *fiber.Ctx) (IncomingFilter, httpx.Page, error) {
	page := httpx.PageFromQuery(c)
	f := IncomingFilter{Search: c.Query("search"), Limit: page.Limit, Offset: page.Offset()}
	var err error
	if f.VendorID, err = httpx.QueryUint(c, "vendorId"); err != nil {
		return f, page, err
	}
	if f.From, f.To, err = dateRange(c); err != nil {
		return f, page, err
	}
	for _, s := range strings.Split(c.Query("status"), ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		status := models.IncomingStatus(s)
		switch status {
		case models.IncomingStatusDraft, models.IncomingStatusCompleted, models.IncomingStatusCancelled:
			f.Statuses = append(f.Statuses, status)
		default:
			return f, page, apperror.Validation("status must be one of [draft completed cancelled]")
		}
	}
	return f, page, nil
}

// GET /api/inventory/incoming?status=&vendorId=&from=&to=&search=&page=&limit=
func (h *Handler) ListIncoming() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		f, page, err := incomingFilter(c)
		if err != nil {
			return err
		}
		headers, total, err := h.svc.ListIncoming(c.UserContext(), p.CompanyID, f)
		if err != nil {
			return err
		}
		return httpx.List(c, headers, page, total)
	}
}

// GET /api/inventory/incoming/history
func (h *Handler) IncomingHistory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		f, page, err := incomingFilter(c)
		if err != nil {
			return err
		}
		headers, total, err := h.svc.History(c.UserContext(), p.CompanyID, f)
		if err != nil {
			return err
		}
		return httpx.List(c, headers, page, total)
	}
}

// GET /api/inventory/incoming/:id
func (h *Handler) GetIncoming() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		header, err := h.svc.GetIncoming(c.UserContext(), p.CompanyID, id)
		if err != nil {
			return err
		}
		return httpx.OK(c, header)
	}
}

// GET /api/inventory/incoming/:id/items
func (h *Handler) ListIncomingItems() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		items, err := h.svc.ListItems(c.UserContext(), p.CompanyID, id)
		if err != nil {
			return err
		}
		return httpx.OK(c, items)
	}
}

// PUT /api/inventory/incoming/:id/status
func (h *Handler) UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateStatusRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		header, err := h.svc.UpdateStatus(c.UserContext(), p, id, models.IncomingStatus(body.Status))
		if err != nil {
			return err
		}
		return httpx.OK(c, header)
	}
}

func moveInput(c *fiber.Ctx) (uint, MoveInput, error) {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return 0, MoveInput{}, err
	}
	var body MoveRequest
	if err := httpx.Bind(c, &body); err != nil {
		return 0, MoveInput{}, err
	}
	inspection, err := httpx.ParseDate("inspectionDate", body.InspectionDate)
	if err != nil {
		return 0, MoveInput{}, err
	}
	return id, MoveInput{
		ItemID:         body.ItemID,
		Quantity:       body.Quantity,
		InspectionDate: inspection,
		Reason:         body.Reason,
	}, nil
}

// POST /api/inventory/incoming/:id/move-received-to-rejected
func (h *Handler) MoveReceivedToRejected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, in, err := moveInput(c)
		if err != nil {
			return err
		}
		result, err := h.svc.MoveReceivedToRejected(c.UserContext(), p, id, in)
		if err != nil {
			return err
		}
		return c.JSON(httpx.Envelope{
			Success: true,
			Data:    result,
			Message: "moved to rejected, report " + result.Report.ReportNumber + " created",
		})
	}
}

// POST /api/inventory/incoming/:id/move-to-rejected
func (h *Handler) MoveShortToRejected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, in, err := moveInput(c)
		if err != nil {
			return err
		}
		result, err := h.svc.MoveShortToRejected(c.UserContext(), p, id, in)
		if err != nil {
			return err
		}
		return httpx.OK(c, result)
	}
}

// PUT /api/inventory/incoming/:id/update-short-item
func (h *Handler) UpdateShortItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateShortItemRequest
		if err := bindNoReceived(c, &body); err != nil {
			return err
		}
		challanDate, err := httpx.ParseDate("challanDate", body.ChallanDate)
		if err != nil {
			return err
		}
		item, err := h.svc.UpdateShortItem(c.UserContext(), p, id, ShortUpdateInput{
			ItemID:        body.ItemID,
			Short:         *body.Short,
			ChallanNumber: body.ChallanNumber,
			ChallanDate:   challanDate,
		})
		if err != nil {
			return err
		}
		return httpx.OK(c, item)
	}
}

// PUT /api/inventory/incoming/:id/update-item-rejected-short
func (h *Handler) UpdateItemRejectedShort() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateItemRejectedShortRequest
		if err := bindNoReceived(c, &body); err != nil {
			return err
		}
		if body.Short == nil && body.Rejected == nil && body.ChallanNumber == nil && body.ChallanDate == "" {
			return apperror.Validation("nothing to update")
		}
		challanDate, err := httpx.ParseDate("challanDate", body.ChallanDate)
		if err != nil {
			return err
		}
		item, err := h.svc.UpdateItemRejectedShort(c.UserContext(), p, id, ItemUpdateInput{
			ItemID:        body.ItemID,
			Short:         body.Short,
			Rejected:      body.Rejected,
			ChallanNumber: body.ChallanNumber,
			ChallanDate:   challanDate,
		})
		if err != nil {
			return err
		}
		return httpx.OK(c, item)
	}
}
