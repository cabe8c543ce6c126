package middlewares

import (
	"sync"

	"github.com/gofiber/fiber/v2"
)

// StoreTx runs the rest of the handler chain as one unit against the
// invoice store: reads share the lock, everything else holds it exclusively.
// Order: run AFTER Idempotency() so replays never wait on the store.
func StoreTx(lock *sync.RWMutex) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
			lock.RLock()
			defer lock.RUnlock()
		} else {
			lock.Lock()
			defer lock.Unlock()
		}

		// Run the handler chain while holding the lock.
		return c.Next()
	}
}
