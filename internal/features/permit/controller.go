package permit

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

type PermitController struct {
	service    PermitService
	approvals  approval.ApprovalService
	users      user.UserService
	dispatcher notification.Dispatcher
}

func NewPermitController(service PermitService, approvals approval.ApprovalService, users user.UserService, dispatcher notification.Dispatcher) *PermitController {
	return &PermitController{
		service:    service,
		approvals:  approvals,
		users:      users,
		dispatcher: dispatcher,
	}
}

func (c *PermitController) Create(ctx *fiber.Ctx) error {
	var input CreatePermitInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if input.Recipient == "" || input.Goods == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Recipient and goods are required"})
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

	c.dispatcher.NotifyRole(approval.NextRole(models.DocTypePermit, doc.Status),
		"New exit permit",
		fmt.Sprintf("Exit permit #%d (%s for %s) from %s awaits approval", doc.Number, doc.Goods, doc.Recipient, actor.DisplayName()),
		&notification.Card{DocType: models.DocTypePermit, DocID: doc.ID, Number: doc.Number, Document: doc})

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": doc})
}

func (c *PermitController) List(ctx *fiber.Ctx) error {
	permits, err := c.service.List(ctx.Context(), models.Status(ctx.Query("status")), ctx.Query("company"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": permits})
}

func (c *PermitController) GetByID(ctx *fiber.Ctx) error {
	doc, err := c.service.GetByID(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exit permit not found"})
	}
	return ctx.JSON(fiber.Map{"data": doc})
}

func (c *PermitController) Update(ctx *fiber.Ctx) error {
	var input UpdatePermitInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	doc, err := c.service.Update(ctx.Context(), ctx.Params("id"), input)
	if errors.Is(err, ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exit permit not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": doc})
}

func (c *PermitController) Delete(ctx *fiber.Ctx) error {
	err := c.service.Delete(ctx.Context(), ctx.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Exit permit not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *PermitController) Approve(ctx *fiber.Ctx) error {
	return c.transition(ctx, false)
}

func (c *PermitController) Reject(ctx *fiber.Ctx) error {
	return c.transition(ctx, true)
}

func (c *PermitController) transition(ctx *fiber.Ctx, reject bool) error {
	claims := middleware.Claims(ctx)
	actor, err := c.users.Resolve(ctx.Context(), claims)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unknown user"})
	}

	id := ctx.Params("id")
	var result *approval.Result
	if reject {
		result, err = c.approvals.Reject(ctx.Context(), models.DocTypePermit, id, actor)
	} else {
		result, err = c.approvals.Approve(ctx.Context(), models.DocTypePermit, id, actor)
	}
	if err != nil {
		return approval.WriteError(ctx, err)
	}

	doc, err := c.service.GetByID(ctx.Context(), id)
	if err == nil {
		notification.Announce(c.dispatcher, result, "Exit permit", doc.Requester, doc)
	}
	return ctx.JSON(fiber.Map{"data": result})
}
