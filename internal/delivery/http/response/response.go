package response

import (
	"fmt"
	"net/http"

	"care-recruitment-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

// Response is the envelope used for errors and admin actions. Public
// resources (users, tests, application receipts) are written bare.
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     interface{} `json:"error,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

// Success sends a success envelope
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		RequestID: requestID(c),
	})
}

// Error sends an error envelope
func Error(c *gin.Context, code int, message string, err interface{}) {
	c.JSON(code, Response{
		Success:   false,
		Message:   message,
		Error:     err,
		RequestID: requestID(c),
	})
}

// Abort sends an error envelope and stops the handler chain.
func Abort(c *gin.Context, code int, message string) {
	Error(c, code, message, nil)
	c.Abort()
}

// Attachment streams a generated file as a download.
func Attachment(c *gin.Context, file *domain.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
