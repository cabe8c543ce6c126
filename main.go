package main

import (
	"log"
	"sync"
	"time"

	"coreinvoice-backend/config"
	"coreinvoice-backend/controllers"
	"coreinvoice-backend/database"
	"coreinvoice-backend/middlewares"
	"coreinvoice-backend/routes"
	"coreinvoice-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Store (in memory, optionally seeded)
	store := database.NewInMemoryStore()
	if cfg.SeedSampleData {
		database.SeedSampleData(store, time.Now())
		log.Printf("seeded %d sample invoices", len(store.GetAll()))
	}

	app := newApp(cfg, store)

	// ---- Start
	log.Printf("API server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("listen: %v", err)
	}
}

// newApp builds the Fiber app with global middleware and routes.
func newApp(cfg config.Config, store services.InvoiceStore) *fiber.App {
	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    cfg.BodyLimit(),
	})

	// ---- Request id, access log, panic recovery
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(recover.New())

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false,
		AllowHeaders:     "Origin, Content-Type, Accept, Idempotency-Key",
	}))

	// ---- Global rate limiter (applies to all routes; tune via env)
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow(),
	}))

	// ---- Routes
	engine := services.NewInvoiceEngine(store)
	routes.Register(app, routes.Dependencies{
		Invoices:       controllers.NewInvoiceController(engine),
		IdempotencyKey: database.NewIdempotencyStore(cfg.IdempotencyTTL),
		StoreLock:      &sync.RWMutex{},
	})

	return app
}
