package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondErrorDetails attaches the underlying error text for operators.
func respondErrorDetails(c *gin.Context, status int, message string, err error) {
	if err == nil {
		respondError(c, status, message)
		return
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

// RecoverPanic answers a panicking request with the JSON error shape.
func (a *API) RecoverPanic(c *gin.Context, recovered any) {
	a.requestLogger(c).Error("panic recovered",
		zap.Any("panic", recovered),
		zap.String("path", c.Request.URL.Path),
	)
	respondErrorDetails(c, http.StatusInternalServerError, "Internal server error", fmt.Errorf("%v", recovered))
	c.Abort()
}
