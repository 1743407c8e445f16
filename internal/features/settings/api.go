package settings

import (
	"go-erp/internal/common/models"
	"go-erp/internal/config"
	"go-erp/internal/features/role"
	"go-erp/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SettingsApi struct {
	service SettingsService
	roles   role.RoleService
	config  *config.Config
}

func NewSettingsApi(service SettingsService, roles role.RoleService, config *config.Config) *SettingsApi {
	return &SettingsApi{
		service: service,
		roles:   roles,
		config:  config,
	}
}

func (h *SettingsApi) Setup(app *fiber.App) {
	group := app.Group("/api/settings",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireCapability(h.roles, role.CapSettingsManage))

	group.Get("/", h.get)
	group.Put("/counters/:type", h.setCounter)
	group.Put("/fiscal-years", h.setFiscalYear)
}

func (h *SettingsApi) get(ctx *fiber.Ctx) error {
	settings, err := h.service.Get(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": settings})
}

func (h *SettingsApi) setCounter(ctx *fiber.Ctx) error {
	var body struct {
		Value int `json:"value"`
	}
	if err := ctx.BodyParser(&body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	if err := h.service.SetCounter(ctx.Context(), models.DocType(ctx.Params("type")), body.Value); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (h *SettingsApi) setFiscalYear(ctx *fiber.Ctx) error {
	var fy models.FiscalYearConfig
	if err := ctx.BodyParser(&fy); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if fy.Company == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Company is required"})
	}

	if err := h.service.SetFiscalYear(ctx.Context(), fy); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
