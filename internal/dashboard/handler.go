package dashboard

import (
	"inventory-backend/internal/apperror"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard/summary
func SummaryHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		summary, err := svc.Summary(c.UserContext(), p.CompanyID)
		if err != nil {
			return err
		}
		return httpx.OK(c, summary)
	}
}

// GET /api/dashboard/movement-chart?period=daily&count=7
func MovementChartHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := auth.FromCtx(c)
		if err != nil {
			return err
		}
		count := c.QueryInt("count", 0)
		if count < 0 || count > 366 {
			return apperror.Validation("count must be between 1 and 366")
		}
		chart, err := svc.MovementChart(c.UserContext(), p.CompanyID, Period(c.Query("period", "daily")), count)
		if err != nil {
			return err
		}
		return httpx.OK(c, chart)
	}
}
