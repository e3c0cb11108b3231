package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/kardex-api/internal/application/alerts"
	"github.com/jhoicas/kardex-api/internal/application/catalog"
	"github.com/jhoicas/kardex-api/internal/application/ledger"
	"github.com/jhoicas/kardex-api/internal/application/ports"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC   *catalog.UseCase
	LedgerUC    *ledger.UseCase
	AlertsUC    *alerts.UseCase
	Idempotency ports.IdempotencyStore
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo de artículos
	items := api.Group("/items")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	items.Post("/", catalogHandler.Create)
	items.Get("/", catalogHandler.List)
	items.Get("/:id", catalogHandler.GetByID)
	items.Put("/:id", catalogHandler.Update)
	items.Delete("/:id", catalogHandler.Delete)

	api.Get("/catalog/summary", catalogHandler.Summary)

	// Libro kardex. Las escrituras pasan por el middleware de idempotencia:
	// un reintento con la misma Idempotency-Key no duplica el movimiento.
	transactions := api.Group("/ledger/transactions")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	idem := IdempotencyMiddleware(deps.Idempotency)
	transactions.Post("/", idem, ledgerHandler.Commit)
	transactions.Get("/", ledgerHandler.List)
	transactions.Get("/:id", ledgerHandler.Get)
	transactions.Put("/:id", idem, ledgerHandler.Edit)
	transactions.Delete("/:id", idem, ledgerHandler.Delete)

	// Alertas de reorden
	alertsHandler := NewAlertsHandler(deps.AlertsUC)
	api.Get("/alerts/low-stock", alertsHandler.LowStock)
}
