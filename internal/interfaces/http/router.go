package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/licorera-api/internal/application/auth"
	"github.com/jhoicas/licorera-api/internal/application/inventory"
	"github.com/jhoicas/licorera-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	MovementUC  *inventory.MovementUseCase
	InventoryUC *inventory.InventoryUseCase
	SaleUC      *sales.SaleUseCase
	BackfillUC  *sales.BackfillUseCase
	ReceiptUC   *sales.ReceiptUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// El token es opcional: solo aporta el vendedor por defecto.
	api := app.Group("/api", OptionalAuth(deps.JWTSecret))

	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	movements := api.Group("/inventory-movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.Log)
	movements.Post("/", movementHandler.Create)
	movements.Get("/", movementHandler.List)
	movements.Get("/inventory/:id", movementHandler.ListByInventory)
	movements.Get("/inventory/:id/summary", movementHandler.Summary)
	movements.Get("/:id", movementHandler.Get)

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.Log)
	inv.Post("/", inventoryHandler.Create)
	inv.Get("/", inventoryHandler.List)
	inv.Get("/:id", inventoryHandler.Get)
	inv.Delete("/:id", inventoryHandler.Delete)

	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC, deps.BackfillUC, deps.ReceiptUC, deps.Log)
	salesGroup.Post("/generate-retroactive-movements", saleHandler.GenerateRetroactiveMovements)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Get("/:id", saleHandler.Get)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Delete("/:id", saleHandler.Delete)
}
