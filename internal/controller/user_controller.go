package controller

import (
	"github.com/gofiber/fiber/v2"

	"ftth-viability-be/internal/dto"
	"ftth-viability-be/internal/pkg/serverutils"
	"ftth-viability-be/internal/service"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1/users")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.RequireRole("admin"))
	h.Post("", c.Create)
	h.Get("", c.List)
}

func (c *userController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateUser(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create user", res))
}

func (c *userController) List(ctx *fiber.Ctx) error {
	role := ctx.Query("role")

	res, err := c.service.ListUsers(ctx.Context(), role)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get users", res))
}
