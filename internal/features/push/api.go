package push

import (
	"go-erp/internal/config"
	"go-erp/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type PushApi struct {
	controller *PushController
	config     *config.Config
}

func NewPushApi(controller *PushController, config *config.Config) *PushApi {
	return &PushApi{
		controller: controller,
		config:     config,
	}
}

func (h *PushApi) Setup(app *fiber.App) {
	group := app.Group("/api/notifications", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.List)
	group.Get("/unread-count", h.controller.GetUnreadCount)
	group.Put("/:id/read", h.controller.MarkAsRead)
	group.Post("/mark-all-read", h.controller.MarkAllAsRead)

	app.Get("/api/ws", websocket.New(h.controller.HandleWebSocket))
}
