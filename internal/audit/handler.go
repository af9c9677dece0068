package audit

import (
	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entityType=sku&entityId=ABCDEF12345678&userId=1
func ListAuditLogsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		userID, err := httpx.QueryUint(c, "userId")
		if err != nil {
			return err
		}
		page := httpx.PageFromQuery(c)

		logs, total, err := svc.List(c.UserContext(), p.CompanyID, ListFilter{
			EntityType: c.Query("entityType"),
			EntityID:   c.Query("entityId"),
			UserID:     userID,
			Limit:      page.Limit,
			Offset:     page.Offset(),
		})
		if err != nil {
			return apperror.FromDB(err, "audit log")
		}
		return httpx.List(c, logs, page, total)
	}
}
