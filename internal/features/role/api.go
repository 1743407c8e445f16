package role

import (
	"go-erp/internal/common/models"
	"go-erp/internal/config"
	"go-erp/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type RoleApi struct {
	service RoleService
	config  *config.Config
}

func NewRoleApi(service RoleService, config *config.Config) *RoleApi {
	return &RoleApi{
		service: service,
		config:  config,
	}
}

func (h *RoleApi) Setup(app *fiber.App) {
	group := app.Group("/api/roles", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.list)
	group.Get("/:role/permissions", h.permissions)
	group.Put("/:role/permissions", middleware.RequireCapability(h.service, CapSettingsManage), h.setPermissions)
}

func (h *RoleApi) list(ctx *fiber.Ctx) error {
	roles, err := h.service.ListRoles(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": roles})
}

func (h *RoleApi) permissions(ctx *fiber.Ctx) error {
	role := models.Role(ctx.Params("role"))

	caps, err := h.service.Effective(ctx.Context(), role)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"role": role, "permissions": caps})
}

func (h *RoleApi) setPermissions(ctx *fiber.Ctx) error {
	role := models.Role(ctx.Params("role"))

	var overrides map[string]bool
	if err := ctx.BodyParser(&overrides); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	if err := h.service.SetOverrides(ctx.Context(), role, overrides); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
