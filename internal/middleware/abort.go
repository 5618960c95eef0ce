package middleware

import "github.com/gin-gonic/gin"

// abortJSON stops the chain and writes the standard error envelope. The
// errors package builds the same shape but depends on this package, so
// middleware writes it directly.
func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(c),
		},
	})
}
