package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck is the liveness probe target.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, NewSuccessResponse(gin.H{"status": "healthy"}))
}
