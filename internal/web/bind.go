package web

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// BindAndValidate parses the JSON body into T and runs struct validation.
// On failure it returns a fiber error the central error handler turns into a
// 400 response.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "validation failed: "+err.Error())
	}
	return &input, nil
}
