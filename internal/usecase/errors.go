package usecase

import (
	"strings"

	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/validation"
)

// validationError turns validator output into a 400 listing every bad field.
func validationError(err error) *apperror.AppError {
	messages := validation.FormatValidationErrors(err)
	return apperror.Validation(strings.Join(messages, "; "), messages)
}
