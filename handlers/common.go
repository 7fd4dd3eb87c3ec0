package handlers

import (
	"errors"
	"log"
	"net/http"

	"invito/middleware"
	"invito/models"
	"invito/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "user not authenticated"})
		return 0, false
	}
	return userID.(uint), true
}

func currentGrant(c *gin.Context) (*models.AccessGrant, bool) {
	value, exists := c.Get(middleware.GrantKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: services.ErrCredentialMissing.Error()})
		return nil, false
	}
	return value.(*models.AccessGrant), true
}

// respondPlayError maps the play-path error taxonomy onto HTTP statuses.
// Storage failures are logged with context and surfaced as a generic 500,
// verbatim only in development.
func respondPlayError(c *gin.Context, err error, environment string) {
	var notPlayable *services.GameNotPlayableError
	var alreadyPlayed *services.AlreadyPlayedError

	switch {
	case errors.As(err, &notPlayable):
		if notPlayable.Missing {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "status": notPlayable.Status})
	case errors.As(err, &alreadyPlayed):
		c.JSON(http.StatusForbidden, gin.H{
			"error":         err.Error(),
			"byOrigin":      alreadyPlayed.ByOrigin,
			"previousScore": alreadyPlayed.Score,
			"previousRank":  alreadyPlayed.Rank,
		})
	case errors.Is(err, services.ErrEventMismatch):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrMalformedSubmission):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNoResult):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("Play route failure on %s: %v", c.FullPath(), err)
		message := "something went wrong"
		if environment == "development" {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: message})
	}
}
