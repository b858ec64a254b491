package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"ros_backend/pkg/utils"
)

// ErrorMiddleware provides centralized error handling for the dashboard API
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			log.Printf("Error: %v", err.Err)

			statusCode := http.StatusInternalServerError
			if err.Meta != nil {
				if code, ok := err.Meta.(int); ok && code != 0 {
					statusCode = code
				}
			}

			message := err.Error()
			if message == "" {
				message = "Internal server error"
			}
			utils.ErrorResponse(c, statusCode, message)
		}
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.NotFoundResponse(c, "Route not found")
	}
}
