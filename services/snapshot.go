package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"invito/models"

	"github.com/redis/go-redis/v9"
)

// GameSnapshot is the player-safe view of an active game's question set.
// Correctness data never appears here; every path serving questions to
// non-organizer callers goes through NewGameSnapshot.
type GameSnapshot struct {
	GameID         uint               `json:"game_id"`
	EventID        uint               `json:"event_id"`
	Name           string             `json:"name"`
	Type           string             `json:"type"`
	Status         string             `json:"status"`
	TotalQuestions int                `json:"total_questions"`
	Questions      []SnapshotQuestion `json:"questions"`
}

type SnapshotQuestion struct {
	ID        uint             `json:"id"`
	Type      string           `json:"type"`
	Prompt    string           `json:"prompt"`
	Points    int              `json:"points"`
	TimeLimit int              `json:"time_limit,omitempty"`
	Order     int              `json:"order"`
	Options   []SnapshotOption `json:"options,omitempty"`
	// CorrectAnswer is intentionally omitted
}

type SnapshotOption struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
	// IsCorrect is intentionally omitted
}

func NewGameSnapshot(game *models.Game) *GameSnapshot {
	snapshot := &GameSnapshot{
		GameID:         game.ID,
		EventID:        game.EventID,
		Name:           game.Name,
		Type:           game.Type,
		Status:         game.Status,
		TotalQuestions: len(game.Questions),
		Questions:      make([]SnapshotQuestion, len(game.Questions)),
	}

	for i, question := range game.Questions {
		sq := SnapshotQuestion{
			ID:        question.ID,
			Type:      question.Type,
			Prompt:    question.Prompt,
			Points:    question.Points,
			TimeLimit: question.TimeLimit,
			Order:     question.Order,
			Options:   make([]SnapshotOption, len(question.Options)),
		}
		for j, option := range question.Options {
			sq.Options[j] = SnapshotOption{
				ID:    option.ID,
				Text:  option.Text,
				Order: option.Order,
			}
		}
		snapshot.Questions[i] = sq
	}

	return snapshot
}

// SnapshotCache keeps full game question sets (correct answers included) in
// Redis so the play path does not re-read Postgres on every request. It is
// constructed once in main and closed on shutdown; any Redis failure is
// logged and treated as a cache miss.
type SnapshotCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{
		redis: client,
		ttl:   10 * time.Minute,
	}
}

func (c *SnapshotCache) key(gameID uint) string {
	return fmt.Sprintf("game:snapshot:%d", gameID)
}

func (c *SnapshotCache) Get(ctx context.Context, gameID uint) *models.Game {
	data, err := c.redis.Get(ctx, c.key(gameID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting snapshot for game %d: %v", gameID, err)
		}
		return nil
	}

	var game models.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		log.Printf("Failed to unmarshal snapshot for game %d: %v", gameID, err)
		return nil
	}

	return &game
}

func (c *SnapshotCache) Set(ctx context.Context, game *models.Game) {
	data, err := json.Marshal(game)
	if err != nil {
		log.Printf("Failed to marshal snapshot for game %d: %v", game.ID, err)
		return
	}

	if err := c.redis.Set(ctx, c.key(game.ID), data, c.ttl).Err(); err != nil {
		log.Printf("Failed to store snapshot for game %d: %v", game.ID, err)
	}
}

func (c *SnapshotCache) Invalidate(ctx context.Context, gameID uint) {
	if err := c.redis.Del(ctx, c.key(gameID)).Err(); err != nil {
		log.Printf("Failed to invalidate snapshot for game %d: %v", gameID, err)
	}
}

func (c *SnapshotCache) Close() error {
	return c.redis.Close()
}
