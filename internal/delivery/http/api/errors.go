package api

import (
	"errors"
	"net/http"
	"strings"

	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/validation"
)

// bindError maps a gin binding failure to a 400.
func bindError(err error) *apperror.AppError {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return apperror.BadRequest("Request body too large")
	}
	messages := validation.FormatValidationErrors(err)
	return apperror.Validation(strings.Join(messages, "; "), messages)
}
