package bijak

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

type BijakController struct {
	service    BijakService
	approvals  approval.ApprovalService
	users      user.UserService
	dispatcher notification.Dispatcher
}

func NewBijakController(service BijakService, approvals approval.ApprovalService, users user.UserService, dispatcher notification.Dispatcher) *BijakController {
	return &BijakController{
		service:    service,
		approvals:  approvals,
		users:      users,
		dispatcher: dispatcher,
	}
}

func (c *BijakController) Create(ctx *fiber.Ctx) error {
	var input CreateBijakInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if len(input.Items) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "At least one item is required"})
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

	c.dispatcher.NotifyRole(approval.NextRole(models.DocTypeBijak, doc.Status),
		"New bijak",
		fmt.Sprintf("Bijak #%d with %d items from %s awaits approval", doc.Number, len(doc.Items), actor.DisplayName()),
		&notification.Card{DocType: models.DocTypeBijak, DocID: doc.ID, Number: doc.Number, Document: doc})

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"data": doc})
}

func (c *BijakController) List(ctx *fiber.Ctx) error {
	bijaks, err := c.service.List(ctx.Context(), models.Status(ctx.Query("status")), ctx.Query("company"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": bijaks})
}

func (c *BijakController) GetByID(ctx *fiber.Ctx) error {
	doc, err := c.service.GetByID(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bijak not found"})
	}
	return ctx.JSON(fiber.Map{"data": doc})
}

func (c *BijakController) Update(ctx *fiber.Ctx) error {
	var input UpdateBijakInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}

	doc, err := c.service.Update(ctx.Context(), ctx.Params("id"), input)
	if errors.Is(err, ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bijak not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": doc})
}

func (c *BijakController) Delete(ctx *fiber.Ctx) error {
	err := c.service.Delete(ctx.Context(), ctx.Params("id"))
	if errors.Is(err, ErrNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Bijak not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *BijakController) Approve(ctx *fiber.Ctx) error {
	return c.transition(ctx, false)
}

func (c *BijakController) Reject(ctx *fiber.Ctx) error {
	return c.transition(ctx, true)
}

func (c *BijakController) transition(ctx *fiber.Ctx, reject bool) error {
	claims := middleware.Claims(ctx)
	actor, err := c.users.Resolve(ctx.Context(), claims)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unknown user"})
	}

	id := ctx.Params("id")
	var result *approval.Result
	if reject {
		result, err = c.approvals.Reject(ctx.Context(), models.DocTypeBijak, id, actor)
	} else {
		result, err = c.approvals.Approve(ctx.Context(), models.DocTypeBijak, id, actor)
	}
	if err != nil {
		return approval.WriteError(ctx, err)
	}

	doc, err := c.service.GetByID(ctx.Context(), id)
	if err == nil {
		notification.Announce(c.dispatcher, result, "Bijak", doc.Requester, doc)
	}
	return ctx.JSON(fiber.Map{"data": result})
}
