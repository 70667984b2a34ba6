package handlers

import (
	"message-actions-api/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// sendError is a helper function that combines logging and error response.
// The logged entry keeps the underlying error; the body carries only the
// client-facing message.
func sendError(c *gin.Context, statusCode int, message string, err error) {
	if logger.Log != nil {
		logger.Error(message,
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}
	c.JSON(statusCode, ErrorResponse{Error: message})
}
