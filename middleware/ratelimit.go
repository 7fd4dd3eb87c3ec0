package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"invito/services"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit is a fixed-window per-origin limiter over Redis. It fails open:
// if Redis is unreachable the request goes through and the error is logged.
func RateLimit(client *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := services.NetworkOrigin(c.Request)
		key := fmt.Sprintf("ratelimit:%s:%s", c.FullPath(), origin)
		ctx := context.Background()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Printf("Rate limiter redis error for %s: %v", origin, err)
			c.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}

		c.Next()
	}
}
