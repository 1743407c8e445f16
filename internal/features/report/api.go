package report

import (
	"strconv"

	"go-erp/internal/common/models"
	"go-erp/internal/config"
	"go-erp/internal/features/role"
	"go-erp/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	service ReportService
	roles   role.RoleService
	config  *config.Config
}

func NewReportApi(service ReportService, roles role.RoleService, config *config.Config) *ReportApi {
	return &ReportApi{
		service: service,
		roles:   roles,
		config:  config,
	}
}

func (h *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireCapability(h.roles, role.CapReportView))

	group.Get("/archive", h.archive)
	group.Get("/pending", h.pending)
	group.Get("/orders.xlsx", h.exportOrders)
}

func (h *ReportApi) archive(ctx *fiber.Ctx) error {
	number, _ := strconv.Atoi(ctx.Query("number"))
	q := Query{
		DocType:      models.DocType(ctx.Query("type")),
		Number:       number,
		DateFragment: ctx.Query("date"),
	}

	entries, err := h.service.Archive(ctx.Context(), q)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": entries})
}

func (h *ReportApi) pending(ctx *fiber.Ctx) error {
	entries, err := h.service.Pending(ctx.Context(), models.Role(ctx.Query("role")))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"data": entries})
}

func (h *ReportApi) exportOrders(ctx *fiber.Ctx) error {
	data, err := h.service.ExportOrders(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	return ctx.Send(data)
}
