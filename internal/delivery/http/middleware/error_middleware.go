package middleware

import (
	"errors"
	"net/http"

	"care-recruitment-backend/internal/delivery/http/response"
	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/apperror"
	"care-recruitment-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed", "request_id", c.GetString(string(domain.KeyRequestID)), "path", c.FullPath(), "error", err)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Internal details stay in the server log.
		logger.Log.Error("Internal server error", "request_id", c.GetString(string(domain.KeyRequestID)), "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
