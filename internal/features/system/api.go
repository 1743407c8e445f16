package system

import (
	"go-erp/internal/bots"
	"go-erp/internal/config"
	"go-erp/internal/features/role"
	"go-erp/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type HealthApi struct{}

func NewHealthApi() *HealthApi {
	return &HealthApi{}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/api/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})
}

// BotApi restarts one messaging integration without a redeploy, for
// when a platform wedges its long-poll.
type BotApi struct {
	runner *bots.Runner
	roles  role.RoleService
	config *config.Config
}

func NewBotApi(runner *bots.Runner, roles role.RoleService, config *config.Config) *BotApi {
	return &BotApi{
		runner: runner,
		roles:  roles,
		config: config,
	}
}

func (h *BotApi) Setup(app *fiber.App) {
	group := app.Group("/api/bots",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireCapability(h.roles, role.CapSettingsManage))

	group.Post("/:platform/restart", h.restart)
}

func (h *BotApi) restart(ctx *fiber.Ctx) error {
	if err := h.runner.Restart(ctx.Params("platform")); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}
