// Package server builds the Fiber application and its routes.
package server

import (
	"strings"

	"inventory-backend/internal/audit"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/catalog"
	"inventory-backend/internal/dashboard"
	"inventory-backend/internal/events"
	"inventory-backend/internal/httpx"
	"inventory-backend/internal/inventory"
	"inventory-backend/internal/logger"
	"inventory-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const maxUploadBytes = 10 << 20

type Deps struct {
	DB             *gorm.DB
	Log            *logrus.Logger
	Tokens         *auth.Tokens
	Events         events.Publisher
	AllowedOrigins []string
}

func New(d Deps) *fiber.App {
	if d.Events == nil {
		d.Events = events.Nop{}
	}

	app := fiber.New(fiber.Config{
		AppName:      "inventory-backend",
		ErrorHandler: httpx.ErrorHandler(d.Log),
		BodyLimit:    maxUploadBytes,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.RequestLogger(d.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(d.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + auth.CompanyHeader,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return httpx.OK(c, fiber.Map{"status": "ok"})
	})

	authSvc := auth.NewService(d.DB)
	authH := auth.NewHandler(authSvc, d.Tokens)
	catalogH := catalog.NewHandler(catalog.NewService(d.DB, d.Events))
	inventoryH := inventory.NewHandler(inventory.NewService(d.DB, d.Events, d.Log))
	dashboardSvc := dashboard.NewService(d.DB)
	auditSvc := audit.NewService(d.DB)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register())
	api.Post("/auth/login", authH.Login())

	// token only: the client learns its company id from /me
	api.Get("/auth/me", auth.JWTMiddleware(d.Tokens), authH.Me())

	protected := api.Group("", auth.JWTMiddleware(d.Tokens), auth.TenantMiddleware())

	users := protected.Group("/users")
	users.Get("/", authH.ListUsers())
	users.Post("/", auth.RequireRole(models.RoleAdmin), authH.CreateUser())

	protected.Post("/vendors", catalogH.CreateVendor())
	protected.Get("/vendors", catalogH.ListVendors())
	protected.Get("/vendors/:id", catalogH.GetVendor())
	protected.Put("/vendors/:id", catalogH.UpdateVendor())
	protected.Delete("/vendors/:id", catalogH.DeactivateVendor())

	protected.Post("/brands", catalogH.CreateBrand())
	protected.Get("/brands", catalogH.ListBrands())
	protected.Get("/brands/:id", catalogH.GetBrand())
	protected.Put("/brands/:id", catalogH.UpdateBrand())
	protected.Delete("/brands/:id", catalogH.DeactivateBrand())

	protected.Post("/categories", catalogH.CreateCategory())
	protected.Get("/categories", catalogH.ListCategories())
	protected.Get("/categories/:id", catalogH.GetCategory())
	protected.Put("/categories/:id", catalogH.UpdateCategory())
	protected.Delete("/categories/:id", catalogH.DeactivateCategory())

	// /skus/import before /skus/:id
	protected.Post("/skus/import", catalogH.ImportSKUs())
	protected.Post("/skus", catalogH.CreateSKU())
	protected.Get("/skus", catalogH.ListSKUs())
	protected.Get("/skus/:id", catalogH.GetSKU())
	protected.Put("/skus/:id", catalogH.UpdateSKU())
	protected.Delete("/skus/:id", catalogH.DeactivateSKU())

	inv := protected.Group("/inventory")
	inv.Post("/incoming", inventoryH.CreateIncoming())
	inv.Get("/incoming", inventoryH.ListIncoming())
	inv.Get("/incoming/history", inventoryH.IncomingHistory())
	inv.Get("/incoming/:id", inventoryH.GetIncoming())
	inv.Get("/incoming/:id/items", inventoryH.ListIncomingItems())
	inv.Put("/incoming/:id/status", inventoryH.UpdateStatus())
	inv.Post("/incoming/:id/move-received-to-rejected", inventoryH.MoveReceivedToRejected())
	inv.Post("/incoming/:id/move-to-rejected", inventoryH.MoveShortToRejected())
	inv.Put("/incoming/:id/update-short-item", inventoryH.UpdateShortItem())
	inv.Put("/incoming/:id/update-item-rejected-short", inventoryH.UpdateItemRejectedShort())
	inv.Get("/rejected-item-reports", inventoryH.ListRejectedReports())
	inv.Put("/rejected-item-reports/:id", inventoryH.UpdateRejectedReport())
	inv.Get("/short-item-reports", inventoryH.ListShortReports())
	inv.Get("/price-history", inventoryH.ListPriceHistory())
	inv.Post("/outgoing", inventoryH.CreateOutgoing())
	inv.Get("/outgoing", inventoryH.ListOutgoing())
	inv.Get("/outgoing/:id", inventoryH.GetOutgoing())

	protected.Get("/dashboard/summary", dashboard.SummaryHandler(dashboardSvc))
	protected.Get("/dashboard/movement-chart", dashboard.MovementChartHandler(dashboardSvc))

	protected.Get("/audit-logs", auth.RequireRole(models.RoleAdmin), audit.ListAuditLogsHandler(auditSvc))

	return app
}
