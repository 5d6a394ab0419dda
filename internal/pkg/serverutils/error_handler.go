package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ftth-viability-be/internal/pkg/apperrors"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// JSON error envelope. Controllers just `return err`.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return ctx.Status(appErr.Status).JSON(fiber.Map{
				"success": false,
				"code":    appErr.Code,
				"message": appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"code":    "HTTP_ERROR",
				"message": fiberErr.Message,
			})
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"code":    "INTERNAL_ERROR",
			"message": "something went wrong",
		})
	}
}
