package respond

import (
	"github.com/gin-gonic/gin"

	"ats-backend/internal/contract"
	"ats-backend/internal/shared/telemetry"
)

// Error logs the failure under code and sends {"message": message}. code never reaches the client.
func Error(c *gin.Context, status int, code, message string) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, contract.ErrorBody{Message: message})
}
