package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"ftth-viability-be/internal/pkg/apperrors"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds the failures into a
// single validation error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.ErrValidation.WithCause(err)
	}

	var parts []string
	for _, fe := range validationErrors {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return apperrors.ErrValidation.WithMessage("%s", strings.Join(parts, "; "))
}
