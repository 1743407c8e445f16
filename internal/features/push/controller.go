package push

import (
	"strconv"

	"go-erp/internal/middleware"
	"go-erp/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type PushController struct {
	service PushService
	hub     *Hub
}

func NewPushController(service PushService, hub *Hub) *PushController {
	return &PushController{
		service: service,
		hub:     hub,
	}
}

func (c *PushController) List(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	notifications, err := c.service.List(ctx.Context(), claims.UserID, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": notifications})
}

func (c *PushController) GetUnreadCount(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	count, err := c.service.UnreadCount(ctx.Context(), claims.UserID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"count": count})
}

func (c *PushController) MarkAsRead(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.service.MarkAsRead(ctx.Context(), ctx.Params("id"), claims.UserID); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *PushController) MarkAllAsRead(ctx *fiber.Ctx) error {
	claims := middleware.Claims(ctx)
	if claims == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if err := c.service.MarkAllAsRead(ctx.Context(), claims.UserID); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// HandleWebSocket keeps the connection registered in the hub until the
// peer goes away. The token rides in the query string because the
// browser websocket API cannot set headers.
func (c *PushController) HandleWebSocket(conn *websocket.Conn) {
	claims, err := utils.ValidateToken(conn.Query("token"))
	if err != nil {
		_ = conn.Close()
		return
	}

	c.hub.Register(claims.UserID, conn)
	defer func() {
		c.hub.Unregister(claims.UserID, conn)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
