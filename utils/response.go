package utils

import "github.com/gin-gonic/gin"

// SuccessResponse wraps data in the standard success envelope.
func SuccessResponse(message string, data interface{}) gin.H {
	return gin.H{
		"success": true,
		"message": message,
		"data":    data,
	}
}

// ErrorResponse wraps an error message in the standard failure envelope.
func ErrorResponse(message string) gin.H {
	return gin.H{
		"success": false,
		"error":   message,
	}
}
