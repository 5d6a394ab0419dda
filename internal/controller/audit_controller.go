package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/pkg/serverutils"
	"ftth-viability-be/internal/service"
)

type IAuditController interface {
	RegisterRoutes(r fiber.Router)
	Claim(ctx *fiber.Ctx) error
	Candidates(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	Reschedule(ctx *fiber.Ctx) error
}

type auditController struct {
	service service.IAuditService
}

func NewAuditController(service service.IAuditService) IAuditController {
	return &auditController{service: service}
}

func (c *auditController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/audit/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.RequireRole("auditor"))
	h.Post("/:id/claim", c.Claim)
	h.Post("/:id/candidates", c.Candidates)
	h.Post("/:id/approve", c.Approve)
	h.Post("/:id/reject", c.Reject)
	h.Post("/:id/reschedule", c.Reschedule)
}

func (c *auditController) Claim(ctx *fiber.Ctx) error {
	auditorId, requestId := actorAndRequest(ctx)

	res, err := c.service.Claim(ctx.Context(), auditorId, requestId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success claim request", res))
}

func (c *auditController) Candidates(ctx *fiber.Ctx) error {
	auditorId, requestId := actorAndRequest(ctx)

	var req dto.CandidatesRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Candidates(ctx.Context(), auditorId, requestId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get candidates", res))
}

func (c *auditController) Approve(ctx *fiber.Ctx) error {
	auditorId, requestId := actorAndRequest(ctx)

	var req dto.ApproveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Approve(ctx.Context(), auditorId, requestId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success approve request", res))
}

func (c *auditController) Reject(ctx *fiber.Ctx) error {
	auditorId, requestId := actorAndRequest(ctx)

	var req dto.RejectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Reject(ctx.Context(), auditorId, requestId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reject request", res))
}

func (c *auditController) Reschedule(ctx *fiber.Ctx) error {
	auditorId, requestId := actorAndRequest(ctx)

	var req dto.RescheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Reschedule(ctx.Context(), auditorId, requestId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reschedule request", res))
}

func actorAndRequest(ctx *fiber.Ctx) (uuid.UUID, uuid.UUID) {
	userIdStr, _ := ctx.Locals("user_id").(string)
	actorId, _ := uuid.Parse(userIdStr)
	requestId, _ := uuid.Parse(ctx.Params("id"))
	return actorId, requestId
}
