package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"audioshield/internal/services"
)

// RegisterHealthRoutes installs the root status page and the health probe.
func RegisterHealthRoutes(r *gin.Engine, service *services.DetectionService) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "online",
			"service":       "AudioShield AI",
			"models_loaded": service.ModelCount(),
		})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
}
