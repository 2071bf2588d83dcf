package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"audioshield/internal/config"
	"audioshield/internal/middleware"
	"audioshield/internal/routes"
	"audioshield/internal/services"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	service := services.NewDetectionService(cfg)

	// Push silence through every backend before listening. Serving with
	// fewer than four live models would break the aggregation contract.
	log.Println("warming up the AI engine...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Detection.WarmUpDeadline())
	if err := service.WarmUp(ctx); err != nil {
		log.Fatalf("warm-up failed: %v", err)
	}
	cancel()
	log.Println("AI engine ready")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	middleware.Setup(r)
	routes.RegisterRoutes(r, cfg, service)

	log.Printf("listening on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}
