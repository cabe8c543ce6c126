package middlewares_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"coreinvoice-backend/database"
	"coreinvoice-backend/middlewares"
	"coreinvoice-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body, 1)
	return body["message"]
}

func TestErrorHandlerMapping(t *testing.T) {
	type payload struct {
		Name *string `json:"name" validate:"required"`
	}

	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Get("/not-found", func(c *fiber.Ctx) error {
		return &services.EngineError{Kind: services.KindNotFound, Message: "Invoice with ID 9 not found."}
	})
	app.Get("/rejected", func(c *fiber.Ctx) error {
		return &services.EngineError{Kind: services.KindPaymentRejected, Message: "nope"}
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusConflict, "conflict")
	})
	app.Post("/validate", func(c *fiber.Ctx) error {
		var p payload
		return middlewares.BindAndValidate(c, &p)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("disk on fire")
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return middlewares.Internal(c, errors.New("disk on fire"), "An error occurred while retrieving invoices.")
	})

	tests := []struct {
		name    string
		req     *http.Request
		status  int
		message string
	}{
		{"engine not found", httptest.NewRequest(http.MethodGet, "/not-found", nil), 404, "Invoice with ID 9 not found."},
		{"engine rejected", httptest.NewRequest(http.MethodGet, "/rejected", nil), 400, "nope"},
		{"fiber error", httptest.NewRequest(http.MethodGet, "/fiber", nil), 409, "conflict"},
		{"validation", jsonRequest(http.MethodPost, "/validate", `{}`), 400, "Invalid input data."},
		{"bad body", jsonRequest(http.MethodPost, "/validate", `{`), 400, "Invalid input data."},
		{"unknown", httptest.NewRequest(http.MethodGet, "/boom", nil), 500, "internal server error"},
		{"canned internal", httptest.NewRequest(http.MethodGet, "/internal", nil), 500, "An error occurred while retrieving invoices."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.message, decodeMessage(t, resp))
		})
	}
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, 404, middlewares.StatusForKind(services.KindNotFound))
	assert.Equal(t, 400, middlewares.StatusForKind(services.KindInvalidAmount))
	assert.Equal(t, 400, middlewares.StatusForKind(services.KindInvalidInput))
	assert.Equal(t, 400, middlewares.StatusForKind(services.KindPaymentRejected))
	assert.Equal(t, 500, middlewares.StatusForKind(services.ErrorKind(0)))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newIdempotentApp(calls *int32) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Use(middlewares.Idempotency(database.NewIdempotencyStore(time.Hour)))
	app.Post("/items", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(calls, 1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"n": n})
	})
	app.Post("/fail", func(c *fiber.Ctx) error {
		atomic.AddInt32(calls, 1)
		return fiber.NewError(fiber.StatusBadRequest, "bad")
	})
	return app
}

func TestIdempotencyReplaysFirstResponse(t *testing.T) {
	var calls int32
	app := newIdempotentApp(&calls)

	send := func() (*http.Response, string) {
		req := jsonRequest(http.MethodPost, "/items", `{"a":1}`)
		req.Header.Set("Idempotency-Key", "abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(body)
	}

	first, firstBody := send()
	second, secondBody := send()

	assert.Equal(t, 201, first.StatusCode)
	assert.Equal(t, 201, second.StatusCode)
	assert.Equal(t, firstBody, secondBody)
	assert.Equal(t, "true", second.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	var calls int32
	app := newIdempotentApp(&calls)

	req := jsonRequest(http.MethodPost, "/items", `{"a":1}`)
	req.Header.Set("Idempotency-Key", "abc")
	_, err := app.Test(req)
	require.NoError(t, err)

	req = jsonRequest(http.MethodPost, "/items", `{"a":2}`)
	req.Header.Set("Idempotency-Key", "abc")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotencyFailureReleasesKey(t *testing.T) {
	var calls int32
	app := newIdempotentApp(&calls)

	for i := 0; i < 2; i++ {
		req := jsonRequest(http.MethodPost, "/fail", `{}`)
		req.Header.Set("Idempotency-Key", "retry-me")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotencyWithoutKeyRunsEveryTime(t *testing.T) {
	var calls int32
	app := newIdempotentApp(&calls)

	for i := 0; i < 3; i++ {
		_, err := app.Test(jsonRequest(http.MethodPost, "/items", `{}`))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestIdempotencyKeyTooLong(t *testing.T) {
	var calls int32
	app := newIdempotentApp(&calls)

	req := jsonRequest(http.MethodPost, "/items", `{}`)
	req.Header.Set("Idempotency-Key", strings.Repeat("k", 129))
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, 400, resp.StatusCode)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestStoreTxSerializesWrites(t *testing.T) {
	var lock sync.RWMutex
	var inFlight, maxInFlight int32

	app := fiber.New()
	app.Use(middlewares.StoreTx(&lock))
	app.Post("/write", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			m := atomic.LoadInt32(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return c.SendStatus(fiber.StatusNoContent)
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/write", nil))
			if assert.NoError(t, err) {
				assert.Equal(t, 204, resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxInFlight))
}
