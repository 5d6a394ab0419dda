package controller

import (
	"github.com/gofiber/fiber/v2"

	"ftth-viability-be/internal/pkg/serverutils"
	"ftth-viability-be/internal/service"
)

type IReportController interface {
	RegisterRoutes(r fiber.Router)
	QueueSummary(ctx *fiber.Ctx) error
	Archive(ctx *fiber.Ctx) error
	RefreshInventory(ctx *fiber.Ctx) error
}

type reportController struct {
	reportService service.IReportService
	auditService  service.IAuditService
}

func NewReportController(reportService service.IReportService, auditService service.IAuditService) IReportController {
	return &reportController{
		reportService: reportService,
		auditService:  auditService,
	}
}

func (c *reportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/report/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.RequireRole("auditor"))
	h.Get("/queue-summary", c.QueueSummary)
	h.Post("/requests/:id/archive", c.Archive)
	h.Post("/inventory/refresh", serverutils.RequireRole("admin"), c.RefreshInventory)
}

func (c *reportController) QueueSummary(ctx *fiber.Ctx) error {
	res, err := c.reportService.QueueSummary(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get queue summary", res))
}

// Archive closes out a resolved request. Part of the reporting sweep, not
// the audit flow, so it lives here.
func (c *reportController) Archive(ctx *fiber.Ctx) error {
	actorId, requestId := actorAndRequest(ctx)

	res, err := c.auditService.Archive(ctx.Context(), actorId, requestId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success archive request", res))
}

func (c *reportController) RefreshInventory(ctx *fiber.Ctx) error {
	res, err := c.reportService.RefreshInventory(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Inventory refresh queued", res))
}
