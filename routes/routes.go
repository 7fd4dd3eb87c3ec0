package routes

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"invito/config"
	"invito/handlers"
	"invito/middleware"
	"invito/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

func SetupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	redisClient *redis.Client,
	authHandler *handlers.AuthHandler,
	eventHandler *handlers.EventHandler,
	gameHandler *handlers.GameHandler,
	playHandler *handlers.PlayHandler,
	accessService *services.AccessService,
	playService *services.PlayService,
	hub *services.Hub,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Organizer routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			events := protected.Group("/events")
			{
				events.GET("", eventHandler.GetUserEvents)
				events.POST("", eventHandler.CreateEvent)
				events.GET("/:id", eventHandler.GetEventByID)
				events.PUT("/:id", eventHandler.UpdateEvent)
				events.DELETE("/:id", eventHandler.DeleteEvent)

				events.GET("/:id/guests", eventHandler.ListGuests)
				events.POST("/:id/guests", eventHandler.AddGuest)
				events.GET("/:id/families", eventHandler.ListFamilies)
				events.POST("/:id/families", eventHandler.AddFamily)

				events.GET("/:id/games", gameHandler.ListGames)
				events.POST("/:id/games", gameHandler.CreateGame)
			}

			games := protected.Group("/games")
			{
				games.GET("/:gameId", gameHandler.GetGame)
				games.PUT("/:gameId", gameHandler.UpdateGame)
				games.PUT("/:gameId/questions", gameHandler.ReplaceQuestions)
				games.POST("/:gameId/status", gameHandler.UpdateStatus)
				games.GET("/:gameId/full-leaderboard", gameHandler.FullLeaderboard)
				games.POST("/:gameId/generate-access", gameHandler.GenerateAccess)
			}
		}

		// Public game routes, gated on an access grant and rate-limited
		// per network origin.
		public := api.Group("/games/public")
		public.Use(middleware.RateLimit(redisClient, cfg.PlayRateLimit, time.Minute))
		{
			public.GET("/:gameId", middleware.AccessGrant(accessService), playHandler.GetGame)
			public.POST("/:gameId/play", middleware.AccessGrant(accessService), playHandler.Play)
			public.GET("/:gameId/leaderboard", middleware.OptionalAccessGrant(accessService), playHandler.Leaderboard)
			public.GET("/:gameId/my-result", middleware.AccessGrant(accessService), playHandler.MyResult)
		}
	}

	// WebSocket endpoint streaming leaderboard updates for a game.
	router.GET("/ws/:gameId", func(c *gin.Context) {
		gameID, err := strconv.ParseUint(c.Param("gameId"), 10, 32)
		if err != nil || gameID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
			return
		}

		// The game must exist and be visible before we hold a socket open.
		if _, err := playService.GetLeaderboard(uint(gameID), nil); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed for game %d: %v", gameID, err)
			return
		}

		hub.RegisterClient(conn, uint(gameID))
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
