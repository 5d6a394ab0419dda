package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/pkg/serverutils"
	"ftth-viability-be/internal/service"
	"ftth-viability-be/pkg/lifecycle"
)

type IViabilityController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
	Queue(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type viabilityController struct {
	service service.IViabilityService
}

func NewViabilityController(service service.IViabilityService) IViabilityController {
	return &viabilityController{service: service}
}

func (c *viabilityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/viability/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.ListMine)
	h.Get("/queue", serverutils.RequireRole("auditor"), c.Queue)
	h.Get("/:id", c.Show)
}

func (c *viabilityController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateViabilityRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create viability request", res))
}

func (c *viabilityController) ListMine(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.ListMine(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get viability requests", res))
}

// Queue lists requests by status for the audit workflow. Defaults to the
// pending queue, oldest first.
func (c *viabilityController) Queue(ctx *fiber.Ctx) error {
	status := lifecycle.Status(ctx.Query("status", string(lifecycle.StatusPending)))

	res, err := c.service.ListByStatus(ctx.Context(), status)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get queue", res))
}

func (c *viabilityController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	id, _ := uuid.Parse(ctx.Params("id"))

	role, _ := ctx.Locals("role").(string)
	isAuditor := role == "auditor" || role == "admin"

	res, err := c.service.Show(ctx.Context(), userId, isAuditor, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show viability request", res))
}
