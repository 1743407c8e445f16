package approval

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// WriteError maps the service sentinels onto HTTP responses; every
// document endpoint answers transition failures the same way.
func WriteError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Document not found"})
	case errors.Is(err, ErrNotPermitted):
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not permitted"})
	case errors.Is(err, ErrTerminal):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Document cannot be changed further"})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
