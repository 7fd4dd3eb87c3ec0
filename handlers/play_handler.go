package handlers

import (
	"net/http"

	"invito/middleware"
	"invito/models"
	"invito/services"

	"github.com/gin-gonic/gin"
)

// PlayHandler serves the public game routes: grant holders fetch the
// redacted question set, submit their one play, and read the leaderboard.
type PlayHandler struct {
	playService *services.PlayService
	environment string
}

func NewPlayHandler(playService *services.PlayService, environment string) *PlayHandler {
	return &PlayHandler{playService: playService, environment: environment}
}

func (h *PlayHandler) GetGame(c *gin.Context) {
	grant, ok := currentGrant(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	snapshot, status, err := h.playService.GetSnapshot(grant, gameID)
	if err != nil {
		respondPlayError(c, err, h.environment)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":        snapshot,
		"play_status": status,
	})
}

func (h *PlayHandler) Play(c *gin.Context) {
	grant, ok := currentGrant(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	var req services.PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: services.ErrMalformedSubmission.Error()})
		return
	}

	origin := services.NetworkOrigin(c.Request)
	result, err := h.playService.Play(grant, gameID, origin, &req)
	if err != nil {
		respondPlayError(c, err, h.environment)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PlayHandler) Leaderboard(c *gin.Context) {
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	var grant *models.AccessGrant
	if value, exists := c.Get(middleware.GrantKey); exists {
		grant = value.(*models.AccessGrant)
	}

	entries, err := h.playService.GetLeaderboard(gameID, grant)
	if err != nil {
		respondPlayError(c, err, h.environment)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":           entries,
		"totalParticipants": len(entries),
	})
}

func (h *PlayHandler) MyResult(c *gin.Context) {
	grant, ok := currentGrant(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	participation, err := h.playService.MyResult(gameID, grant)
	if err != nil {
		respondPlayError(c, err, h.environment)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playerName":     participation.PlayerName,
		"score":          participation.Score,
		"correctAnswers": participation.CorrectAnswers,
		"totalAnswers":   participation.TotalAnswers,
		"rank":           participation.Rank,
		"completedAt":    participation.CompletedAt,
	})
}
