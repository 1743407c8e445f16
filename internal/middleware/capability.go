package middleware

import (
	"context"

	"go-erp/internal/common/models"
	"go-erp/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// RoleService is the slice of the role service the middleware needs.
type RoleService interface {
	HasCapability(ctx context.Context, role models.Role, capability string) (bool, error)
}

// RequireCapability refuses the request unless the authenticated role
// holds the named capability. admin always passes.
func RequireCapability(roles RoleService, capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		allowed, err := roles.HasCapability(c.Context(), models.Role(claims.Role), capability)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if !allowed {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not permitted"})
		}
		return c.Next()
	}
}
