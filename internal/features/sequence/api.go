package sequence

import (
	"go-erp/internal/common/models"
	"go-erp/internal/config"
	"go-erp/internal/middleware"
	"go-erp/internal/store"

	"github.com/gofiber/fiber/v2"
)

type SequenceApi struct {
	store  *store.Store
	config *config.Config
}

func NewSequenceApi(st *store.Store, config *config.Config) *SequenceApi {
	return &SequenceApi{
		store:  st,
		config: config,
	}
}

func (h *SequenceApi) Setup(app *fiber.App) {
	group := app.Group("/api/next-number", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/:type", h.preview)
}

// preview exposes the allocator without mutating state.
func (h *SequenceApi) preview(ctx *fiber.Ctx) error {
	docType := models.DocType(ctx.Params("type"))
	switch docType {
	case models.DocTypeOrder, models.DocTypePermit, models.DocTypeBijak:
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown document type"})
	}

	company := ctx.Query("company", h.config.Company)

	var number int
	err := h.store.View(func(d *store.Data) error {
		number = NextNumber(d, docType, company)
		return nil
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"type": docType, "company": company, "number": number})
}
