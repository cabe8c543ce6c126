package routes

import (
	"sync"

	"github.com/gofiber/fiber/v2"

	"coreinvoice-backend/controllers"
	"coreinvoice-backend/database"
	"coreinvoice-backend/middlewares"
)

// Dependencies are the shared objects the routes need.
type Dependencies struct {
	Invoices       *controllers.InvoiceController
	IdempotencyKey *database.IdempotencyStore
	StoreLock      *sync.RWMutex
}

// Register wires all HTTP routes.
func Register(app *fiber.App, deps Dependencies) {
	api := app.Group("/api/invoice")

	// Idempotency guard FIRST (replays must not wait on the store lock)
	api.Use(middlewares.Idempotency(deps.IdempotencyKey))

	// Then the per-request store lock
	api.Use(middlewares.StoreTx(deps.StoreLock))

	// Invoices
	api.Get("/invoices", deps.Invoices.GetInvoices)
	api.Post("/invoices", deps.Invoices.CreateInvoice)
	api.Post("/invoices/process-overdue", deps.Invoices.ProcessOverdueInvoices)
	api.Post("/invoices/:id/pay", deps.Invoices.PayInvoice)
}
