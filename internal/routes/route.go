// Package routes registers the HTTP routes.
package routes

import (
	"github.com/gin-gonic/gin"

	"audioshield/internal/config"
	"audioshield/internal/handlers"
	"audioshield/internal/middleware"
	"audioshield/internal/services"
)

// RegisterRoutes registers all routes on the engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, service *services.DetectionService) {
	handlers.RegisterHealthRoutes(r, service)

	api := r.Group("/api", middleware.APIKeyAuth(cfg.Server.APIKey))
	detection := handlers.NewDetectionHandler(cfg, service)
	api.POST("/voice-detection", detection.HandleDetection)
}
