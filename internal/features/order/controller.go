package order

import (
	"errors"
	"fmt"

	"go-erp/internal/common/models"
	"go-erp/internal/features/approval"
	"go-erp/internal/features/notification"
	"go-erp/internal/features/user"
	"go-erp/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type OrderController struct {
	service    OrderService
	approvals  approval.ApprovalService
	users      user.UserService
	dispatcher notification.Dispatcher
}

func NewOrderController(service OrderService, approvals approval.ApprovalService, users user.UserService, dispatcher notification.Dispatcher) *OrderController {
	return &OrderController{
		service:    service,
		approvals:  approvals,
		users:      users,
		dispatcher: dispatcher,
	}
}

func (c *OrderController) Create(ctx *fiber.Ctx) error {
	var input CreateOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if input.Payee == "" || input.Amount.IsZero() {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Payee and amount are required"})
	}

	claims := middleware.Claims(ctx)
	actor, err := c.users.Resolve(ctx.Context(), claims)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unknown user"})
	}

	doc, err := c.service.Create(ctx.Context(), input, actor.Username)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.dispatcher.NotifyRole(approval.NextRole(models.DocTypeOrder, doc.Status),
		"New payment order",
		fmt.Sprintf("Payment order #%d (%s) from %s awaits financial review", doc.Number, doc.Payee, actor.DisplayName()),
		&notification.Card{DocType: models.DocTypeOrder, DocID: doc.ID, Number: doc.Number, Document: doc})

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": doc})
}

func (c *OrderController) List(ctx *fiber.Ctx) error {
	orders, err := c.service.List(ctx.Context(), models.Status(ctx.Query("status")), ctx.Query("company"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": orders})
}

func (c *OrderController) GetByID(ctx *fiber.Ctx) error {
	doc, err := c.service.GetByID(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment order not found"})
	}
	return ctx.JSON(fiber.Map{"data": doc})
}

func (c *OrderController) Update(ctx *fiber.Ctx) error {
	var input UpdateOrderInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	doc, err := c.service.Update(ctx.Context(), ctx.Params("id"), input)
	if errors.Is(err, ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment order not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": doc})
}

func (c *OrderController) Delete(ctx *fiber.Ctx) error {
	err := c.service.Delete(ctx.Context(), ctx.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Payment order not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *OrderController) Approve(ctx *fiber.Ctx) error {
	return c.transition(ctx, false)
}

func (c *OrderController) Reject(ctx *fiber.Ctx) error {
	return c.transition(ctx, true)
}

func (c *OrderController) transition(ctx *fiber.Ctx, reject bool) error {
	claims := middleware.Claims(ctx)
	actor, err := c.users.Resolve(ctx.Context(), claims)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unknown user"})
	}

	id := ctx.Params("id")
	var result *approval.Result
	if reject {
		result, err = c.approvals.Reject(ctx.Context(), models.DocTypeOrder, id, actor)
	} else {
		result, err = c.approvals.Approve(ctx.Context(), models.DocTypeOrder, id, actor)
	}
	if err != nil {
		return approval.WriteError(ctx, err)
	}

	doc, err := c.service.GetByID(ctx.Context(), id)
	if err == nil {
		notification.Announce(c.dispatcher, result, "Payment order", doc.Requester, doc)
	}
	return ctx.JSON(fiber.Map{"data": result})
}
