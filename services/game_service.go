package services

import (
	"context"
	"errors"
	"fmt"

	"invito/models"

	"gorm.io/gorm"
)

type GameService struct {
	db    *gorm.DB
	cache *SnapshotCache
}

func NewGameService(db *gorm.DB, cache *SnapshotCache) *GameService {
	return &GameService{db: db, cache: cache}
}

type CreateGameRequest struct {
	Name      string                  `json:"name" binding:"required"`
	Type      string                  `json:"type" binding:"required"`
	Questions []CreateQuestionRequest `json:"questions"`
}

type CreateQuestionRequest struct {
	Type          string                `json:"type" binding:"required"`
	Prompt        string                `json:"prompt" binding:"required"`
	CorrectAnswer string                `json:"correct_answer"`
	Points        int                   `json:"points" binding:"omitempty,min=0"`
	TimeLimit     int                   `json:"time_limit" binding:"omitempty,min=5,max=300"`
	Order         int                   `json:"order"`
	Options       []CreateOptionRequest `json:"options" binding:"omitempty,max=6"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order"`
}

type UpdateGameRequest struct {
	Name     string `json:"name"`
	IsActive *bool  `json:"is_active"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *GameService) CreateGame(eventID uint, userID uint, req *CreateGameRequest) (*models.Game, error) {
	// Check if event exists and belongs to user
	var event models.Event
	if err := s.db.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		return nil, errors.New("event not found")
	}

	if !models.ValidGameType(req.Type) {
		return nil, fmt.Errorf("unknown game type '%s'", req.Type)
	}
	for _, qReq := range req.Questions {
		if err := validateQuestion(&qReq); err != nil {
			return nil, err
		}
	}

	game := models.Game{
		EventID: eventID,
		Name:    req.Name,
		Type:    req.Type,
		Status:  models.GameStatusDraft,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&game).Error; err != nil {
			return err
		}
		return createQuestions(tx, game.ID, req.Questions)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOwnedGame(game.ID, userID)
}

func validateQuestion(req *CreateQuestionRequest) error {
	if !models.ValidQuestionType(req.Type) {
		return fmt.Errorf("unknown question type '%s'", req.Type)
	}

	switch req.Type {
	case models.QuestionTypeMultipleChoice:
		if len(req.Options) < 2 {
			return errors.New("multiple choice questions need at least two options")
		}
		correctCount := 0
		for _, opt := range req.Options {
			if opt.IsCorrect {
				correctCount++
			}
		}
		if correctCount > 1 {
			return errors.New("multiple choice questions may flag at most one correct option")
		}
	case models.QuestionTypeText:
		if req.CorrectAnswer == "" {
			return errors.New("text questions need a correct answer")
		}
	case models.QuestionTypeBoolean:
		if req.CorrectAnswer != "true" && req.CorrectAnswer != "false" {
			return errors.New("boolean questions need a correct answer of 'true' or 'false'")
		}
	}

	return nil
}

func createQuestions(tx *gorm.DB, gameID uint, reqs []CreateQuestionRequest) error {
	for _, qReq := range reqs {
		points := qReq.Points
		if points == 0 {
			points = 10
		}

		question := models.Question{
			GameID:        gameID,
			Type:          qReq.Type,
			Prompt:        qReq.Prompt,
			CorrectAnswer: qReq.CorrectAnswer,
			Points:        points,
			TimeLimit:     qReq.TimeLimit,
			Order:         qReq.Order,
		}

		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		for _, optReq := range qReq.Options {
			option := models.Option{
				QuestionID: question.ID,
				Text:       optReq.Text,
				IsCorrect:  optReq.IsCorrect,
				Order:      optReq.Order,
			}

			if err := tx.Create(&option).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// GetOwnedGame fetches a game with its full question set (correct answers
// included) after verifying the caller owns the event the game belongs to.
func (s *GameService) GetOwnedGame(gameID uint, userID uint) (*models.Game, error) {
	var game models.Game
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order(`questions."order"`)
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order(`options."order"`)
	}).First(&game, gameID).Error
	if err != nil {
		return nil, errors.New("game not found")
	}

	var event models.Event
	if err := s.db.Where("id = ? AND user_id = ?", game.EventID, userID).First(&event).Error; err != nil {
		return nil, errors.New("unauthorized to manage this game")
	}

	return &game, nil
}

func (s *GameService) ListGames(eventID uint, userID uint) ([]models.Game, error) {
	var event models.Event
	if err := s.db.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		return nil, errors.New("event not found")
	}

	var games []models.Game
	err := s.db.Where("event_id = ?", eventID).Order("created_at DESC").Find(&games).Error
	return games, err
}

func (s *GameService) UpdateGame(gameID uint, userID uint, req *UpdateGameRequest) (*models.Game, error) {
	game, err := s.GetOwnedGame(gameID, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(game).Updates(updates).Error; err != nil {
			return nil, err
		}
		s.cache.Invalidate(context.Background(), gameID)
	}

	return s.GetOwnedGame(gameID, userID)
}

// ReplaceQuestions swaps a draft game's question set. Question sets are
// immutable once a game has left draft.
func (s *GameService) ReplaceQuestions(gameID uint, userID uint, reqs []CreateQuestionRequest) (*models.Game, error) {
	game, err := s.GetOwnedGame(gameID, userID)
	if err != nil {
		return nil, err
	}

	if game.Status != models.GameStatusDraft {
		return nil, fmt.Errorf("questions can only be edited in draft (status '%s')", game.Status)
	}

	for _, qReq := range reqs {
		if err := validateQuestion(&qReq); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&models.Question{}).Where("game_id = ?", gameID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
				return err
			}
			if err := tx.Where("game_id = ?", gameID).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}
		return createQuestions(tx, gameID, reqs)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(context.Background(), gameID)
	return s.GetOwnedGame(gameID, userID)
}

// UpdateStatus moves a game through its lifecycle. Transitions are
// organizer-driven and validated; completed is terminal.
func (s *GameService) UpdateStatus(gameID uint, userID uint, status string) (*models.Game, error) {
	game, err := s.GetOwnedGame(gameID, userID)
	if err != nil {
		return nil, err
	}

	if !validTransition(game.Status, status) {
		return nil, fmt.Errorf("cannot move game from '%s' to '%s'", game.Status, status)
	}

	if err := s.db.Model(game).Update("status", status).Error; err != nil {
		return nil, err
	}

	s.cache.Invalidate(context.Background(), gameID)
	return s.GetOwnedGame(gameID, userID)
}

func validTransition(from, to string) bool {
	switch from {
	case models.GameStatusDraft:
		return to == models.GameStatusActive
	case models.GameStatusActive:
		return to == models.GameStatusPaused || to == models.GameStatusCompleted
	case models.GameStatusPaused:
		return to == models.GameStatusActive || to == models.GameStatusCompleted
	default:
		return false
	}
}
