package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"coreinvoice-backend/database"

	"github.com/gofiber/fiber/v2"
)

const idempotencyHeader = "Idempotency-Key"

// Idempotency processes Idempotency-Key for mutating HTTP methods.
// The first successful response for a key is stored and replayed for
// identical retries; failed requests release the key.
func Idempotency(keys *database.IdempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(idempotencyHeader))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		path := c.OriginalURL() // includes query string

		// Build deterministic request hash: method|path|body
		h := sha256.New()
		h.Write([]byte(method))
		h.Write([]byte{'\n'})
		h.Write([]byte(path))
		h.Write([]byte{'\n'})
		h.Write(c.Body())
		reqHash := hex.EncodeToString(h.Sum(nil))

		// ---- Phase 1: reserve the key or replay the stored response
		rec, replay, err := keys.Begin(key, reqHash, method, path)
		switch {
		case errors.Is(err, database.ErrIdempotencyMismatch):
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		case errors.Is(err, database.ErrIdempotencyPending):
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key request still in progress")
		case err != nil:
			return err
		}
		if replay {
			if rec.ContentType != "" {
				c.Set(fiber.HeaderContentType, rec.ContentType)
			}
			c.Set("Idempotent-Replayed", "true")
			return c.Status(rec.ResponseStatus).Send(rec.ResponseBody)
		}

		if err := c.Next(); err != nil {
			keys.Release(key)
			return err
		}

		// ---- Phase 2: store the response
		resp := c.Response()
		keys.Complete(key, resp.StatusCode(), string(resp.Header.ContentType()), resp.Body())
		return nil
	}
}
