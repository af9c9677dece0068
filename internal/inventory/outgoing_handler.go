package inventory

import (
	"inventory-backend/internal/auth"
	"inventory-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type OutgoingItemRequest struct {
	SKUID     string  `json:"skuId" validate:"required,max=14"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`
}

type CreateOutgoingRequest struct {
	DocumentNumber string                `json:"documentNumber" validate:"required,max=50"`
	DocumentDate   string                `json:"documentDate" validate:"required,datetime=2006-01-02"`
	CustomerName   string                `json:"customerName" validate:"max=150"`
	Destination    string                `json:"destination" validate:"max=255"`
	Remarks        string                `json:"remarks" validate:"max=500"`
	Items          []OutgoingItemRequest `json:"items" validate:"required,min=1,dive"`
}

// POST /api/inventory/outgoing
func (h *Handler) CreateOutgoing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		var body CreateOutgoingRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		in := OutgoingInput{
			DocumentNumber: body.DocumentNumber,
			CustomerName:   body.CustomerName,
			Destination:    body.Destination,
			Remarks:        body.Remarks,
		}
		if in.DocumentDate, err = mustDate("documentDate", body.DocumentDate); err != nil {
			return err
		}
		for _, it := range body.Items {
			in.Items = append(in.Items, OutgoingItemInput{
				SKUID:     it.SKUID,
				Quantity:  it.Quantity,
				UnitPrice: decimal.NewFromFloat(it.UnitPrice),
			})
		}
		doc, err := h.svc.CreateOutgoing(c.UserContext(), p, in)
		if err != nil {
			return err
		}
		return httpx.Created(c, doc, "outgoing inventory created")
	}
}

// GET /api/inventory/outgoing?from=&to=&search=
func (h *Handler) ListOutgoing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		page := httpx.PageFromQuery(c)
		f := OutgoingFilter{Search: c.Query("search"), Limit: page.Limit, Offset: page.Offset()}
		if f.From, f.To, err = dateRange(c); err != nil {
			return err
		}
		docs, total, err := h.svc.ListOutgoing(c.UserContext(), p.CompanyID, f)
		if err != nil {
			return err
		}
		return httpx.List(c, docs, page, total)
	}
}

// GET /api/inventory/outgoing/:id
func (h *Handler) GetOutgoing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		doc, err := h.svc.GetOutgoing(c.UserContext(), p.CompanyID, id)
		if err != nil {
			return err
		}
		return httpx.OK(c, doc)
	}
}
