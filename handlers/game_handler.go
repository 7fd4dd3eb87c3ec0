package handlers

import (
	"net/http"

	"invito/services"

	"github.com/gin-gonic/gin"
)

type GameHandler struct {
	gameService   *services.GameService
	accessService *services.AccessService
	playService   *services.PlayService
}

func NewGameHandler(gameService *services.GameService, accessService *services.AccessService, playService *services.PlayService) *GameHandler {
	return &GameHandler{
		gameService:   gameService,
		accessService: accessService,
		playService:   playService,
	}
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.gameService.CreateGame(eventID, userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, game)
}

func (h *GameHandler) ListGames(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := pathID(c, "id")
	if !ok {
		return
	}

	games, err := h.gameService.ListGames(eventID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, games)
}

func (h *GameHandler) GetGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.gameService.GetOwnedGame(gameID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) UpdateGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	var req services.UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.gameService.UpdateGame(gameID, userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) ReplaceQuestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	var req struct {
		Questions []services.CreateQuestionRequest `json:"questions" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.gameService.ReplaceQuestions(gameID, userID, req.Questions)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

func (h *GameHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	game, err := h.gameService.UpdateStatus(gameID, userID, req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, game)
}

// FullLeaderboard is the organizer view, unredacted and including internal
// player identifiers.
func (h *GameHandler) FullLeaderboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	if _, err := h.gameService.GetOwnedGame(gameID, userID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	participations, err := h.playService.FullLeaderboard(gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries":           participations,
		"totalParticipants": len(participations),
	})
}

func (h *GameHandler) GenerateAccess(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "gameId")
	if !ok {
		return
	}

	game, err := h.gameService.GetOwnedGame(gameID, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	var req services.GenerateAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	grants, err := h.accessService.GenerateGrants(game, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to generate access tokens"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"grants": grants,
		"count":  len(grants),
	})
}
