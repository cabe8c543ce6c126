package middlewares

import (
	"errors"
	"log"

	"coreinvoice-backend/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const invalidInputMessage = "Invalid input data."

// ErrorHandler centralizes error responses and keeps messages sanitized.
// Every body is a single {"message": ...} object.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// 1) Engine errors carry a client-safe message and a fixed status per kind
	var ee *services.EngineError
	if errors.As(err, &ee) {
		return c.Status(StatusForKind(ee.Kind)).JSON(fiber.Map{"message": ee.Error()})
	}

	// 2) Fiber errors (use their status code + message)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// 3) Validation errors
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": invalidInputMessage})
	}

	// 4) Unknown errors (500)
	log.Printf("internal error [%v]: %v", c.Locals("requestid"), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

// StatusForKind maps an engine error kind to its HTTP status.
func StatusForKind(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return fiber.StatusNotFound
	case services.KindInvalidAmount, services.KindInvalidInput, services.KindPaymentRejected:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Internal hides an unexpected error behind a canned 500 message. Engine and
// Fiber errors pass through untouched.
func Internal(c *fiber.Ctx, err error, message string) error {
	var ee *services.EngineError
	var fe *fiber.Error
	if errors.As(err, &ee) || errors.As(err, &fe) {
		return err
	}
	log.Printf("internal error [%v] %s %s: %v", c.Locals("requestid"), c.Method(), c.Path(), err)
	return fiber.NewError(fiber.StatusInternalServerError, message)
}
