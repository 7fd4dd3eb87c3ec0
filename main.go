package main

import (
	"log"

	"invito/config"
	"invito/handlers"
	"invito/middleware"
	"invito/models"
	"invito/routes"
	"invito/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Family{},
		&models.Guest{},
		&models.Game{},
		&models.Question{},
		&models.Option{},
		&models.AccessGrant{},
		&models.Participation{},
		&models.AnswerRecord{},
		&models.OriginGuard{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis and the snapshot cache built on it
	redisClient := config.InitRedis(cfg)
	cache := services.NewSnapshotCache(redisClient)
	defer cache.Close()

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	eventService := services.NewEventService(db)
	gameService := services.NewGameService(db, cache)
	accessService := services.NewAccessService(db)

	// Initialize WebSocket hub
	hub := services.NewHub()
	go hub.Run()

	playService := services.NewPlayService(db, cache, accessService, hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService)
	gameHandler := handlers.NewGameHandler(gameService, accessService, playService)
	playHandler := handlers.NewPlayHandler(playService, cfg.Environment)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, cfg, redisClient, authHandler, eventHandler, gameHandler, playHandler, accessService, playService, hub)

	// Start server
	addr := cfg.BindAddress + ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
