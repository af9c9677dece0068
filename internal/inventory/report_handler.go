package inventory

import (
	"inventory-backend/internal/auth"
	"inventory-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

type DispositionRequest struct {
	SentToVendor int `json:"sentToVendor" validate:"gte=0"`
	ReceivedBack int `json:"receivedBack" validate:"gte=0"`
	Scrapped     int `json:"scrapped" validate:"gte=0"`
}

// GET /api/inventory/rejected-item-reports?invoiceNumber=&skuId=&vendorId=&from=&to=
func (h *Handler) ListRejectedReports() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		page := httpx.PageFromQuery(c)
		f := RejectedReportFilter{
			InvoiceNumber: c.Query("invoiceNumber"),
			SKUID:         c.Query("skuId"),
			Limit:         page.Limit,
			Offset:        page.Offset(),
		}
		if f.VendorID, err = httpx.QueryUint(c, "vendorId"); err != nil {
			return err
		}
		if f.From, f.To, err = dateRange(c); err != nil {
			return err
		}
		reports, total, err := h.svc.ListRejectedReports(c.UserContext(), p.CompanyID, f)
		if err != nil {
			return err
		}
		return httpx.List(c, reports, page, total)
	}
}

// PUT /api/inventory/rejected-item-reports/:id
func (h *Handler) UpdateRejectedReport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		var body DispositionRequest
		if err := httpx.Bind(c, &body); err != nil {
			return err
		}
		report, err := h.svc.UpdateRejectedReport(c.UserContext(), p, id, Disposition{
			SentToVendor: body.SentToVendor,
			ReceivedBack: body.ReceivedBack,
			Scrapped:     body.Scrapped,
		})
		if err != nil {
			return err
		}
		return httpx.OK(c, report)
	}
}

// GET /api/inventory/short-item-reports?status=pending|resolved&vendorId=
func (h *Handler) ListShortReports() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		f := ShortReportFilter{Status: c.Query("status")}
		if f.VendorID, err = httpx.QueryUint(c, "vendorId"); err != nil {
			return err
		}
		rows, err := h.svc.ListShortReports(c.UserContext(), p.CompanyID, f)
		if err != nil {
			return err
		}
		return httpx.OK(c, rows)
	}
}

// GET /api/inventory/price-history?skuId=&vendorId=&from=&to=
func (h *Handler) ListPriceHistory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		f := PriceHistoryFilter{SKUID: c.Query("skuId")}
		if f.VendorID, err = httpx.QueryUint(c, "vendorId"); err != nil {
			return err
		}
		if f.From, f.To, err = dateRange(c); err != nil {
			return err
		}
		rows, err := h.svc.ListPriceHistory(c.UserContext(), p.CompanyID, f)
		if err != nil {
			return err
		}
		return httpx.OK(c, rows)
	}
}
