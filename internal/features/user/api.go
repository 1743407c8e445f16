package user

import (
	"go-erp/internal/config"
	"go-erp/internal/features/role"
	"go-erp/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type UserApi struct {
	controller  *UserController
	roleService role.RoleService
	config      *config.Config
}

func NewUserApi(controller *UserController, roleService role.RoleService, config *config.Config) *UserApi {
	return &UserApi{
		controller:  controller,
		roleService: roleService,
		config:      config,
	}
}

func (h *UserApi) Setup(app *fiber.App) {
	group := app.Group("/api/users", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.Get)
	group.Post("/", middleware.RequireCapability(h.roleService, role.CapUsersManage), h.controller.Create)
	group.Put("/:id", middleware.RequireCapability(h.roleService, role.CapUsersManage), h.controller.Update)
	group.Delete("/:id", middleware.RequireCapability(h.roleService, role.CapUsersManage), h.controller.Delete)
}
