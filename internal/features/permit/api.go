package permit

import (
	"go-erp/internal/config"
	"go-erp/internal/features/role"
	"go-erp/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type PermitApi struct {
	controller *PermitController
	roles      role.RoleService
	config     *config.Config
}

func NewPermitApi(controller *PermitController, roles role.RoleService, config *config.Config) *PermitApi {
	return &PermitApi{
		controller: controller,
		roles:      roles,
		config:     config,
	}
}

func (h *PermitApi) Setup(app *fiber.App) {
	group := app.Group("/api/permits", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequireCapability(h.roles, role.CapExitCreate), h.controller.Create)
	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.GetByID)
	group.Put("/:id", middleware.RequireCapability(h.roles, role.CapDocumentsManage), h.controller.Update)
	group.Delete("/:id", middleware.RequireCapability(h.roles, role.CapDocumentsManage), h.controller.Delete)
	group.Post("/:id/approve", h.controller.Approve)
	group.Post("/:id/reject", h.controller.Reject)
}
