package middlewares

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// BindAndValidate parses the request body into dst and validates it.
// Returns a 400 fiber error for parse errors and validator.ValidationErrors for validation issues.
func BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, invalidInputMessage)
	}
	return validate.Struct(dst)
}

// ParamInt reads an integer route parameter.
func ParamInt(c *fiber.Ctx, name string) (int, error) {
	v, err := c.ParamsInt(name)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, invalidInputMessage)
	}
	return v, nil
}
