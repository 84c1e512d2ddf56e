package middleware

import (
	"context"
	"net/http"
	"strings"

	"care-recruitment-backend/internal/delivery/http/response"
	"care-recruitment-backend/internal/domain"
	"care-recruitment-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware requires a valid admin bearer token. When admin auth is
// disabled every request passes through.
func AdminAuthMiddleware(authUC domain.AuthUsecase, audit *security.AuditLogger) gin.HandlerFunc {
	if audit == nil {
		audit = security.NopAuditLogger()
	}
	return func(c *gin.Context) {
		if !authUC.Enabled() {
			c.Next()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		username, err := authUC.VerifyToken(tokenString)
		if err != nil {
			audit.Log(c.Request.Context(), security.AuditEvent{
				Event:     security.EventUnauthorizedAccess,
				IP:        c.ClientIP(),
				RequestID: c.GetString(string(domain.KeyRequestID)),
				Details:   map[string]interface{}{"path": c.FullPath()},
			})
			response.Abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(string(domain.KeyAdminUsername), username)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeyAdminUsername, username))

		c.Next()
	}
}
