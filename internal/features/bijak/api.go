package bijak

import (
	"go-erp/internal/config"
	"go-erp/internal/features/role"
	"go-erp/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type BijakApi struct {
	controller *BijakController
	roles      role.RoleService
	config     *config.Config
}

func NewBijakApi(controller *BijakController, roles role.RoleService, config *config.Config) *BijakApi {
	return &BijakApi{
		controller: controller,
		roles:      roles,
		config:     config,
	}
}

func (h *BijakApi) Setup(app *fiber.App) {
	group := app.Group("/api/bijaks", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/", middleware.RequireCapability(h.roles, role.CapBijakCreate), h.controller.Create)
	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.GetByID)
	group.Put("/:id", middleware.RequireCapability(h.roles, role.CapDocumentsManage), h.controller.Update)
	group.Delete("/:id", middleware.RequireCapability(h.roles, role.CapDocumentsManage), h.controller.Delete)
	group.Post("/:id/approve", h.controller.Approve)
	group.Post("/:id/reject", h.controller.Reject)
}
