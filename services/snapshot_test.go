package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"invito/models"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func snapshotGame() *models.Game {
	return &models.Game{
		ID:       7,
		EventID:  3,
		Name:     "Reception Trivia",
		Type:     models.GameTypeTrivia,
		Status:   models.GameStatusActive,
		IsActive: true,
		Questions: []models.Question{
			{
				ID:     1,
				GameID: 7,
				Type:   models.QuestionTypeMultipleChoice,
				Prompt: "Where did the couple meet?",
				Points: 10,
				Options: []models.Option{
					{ID: 1, Text: "Lisbon", IsCorrect: true},
					{ID: 2, Text: "Porto", IsCorrect: false},
				},
			},
			{
				ID:            2,
				GameID:        7,
				Type:          models.QuestionTypeText,
				Prompt:        "Name of the couple's dog?",
				CorrectAnswer: "Biscuit",
				Points:        5,
			},
		},
	}
}

func TestNewGameSnapshotRedactsAnswers(t *testing.T) {
	snapshot := NewGameSnapshot(snapshotGame())

	if snapshot.TotalQuestions != 2 || len(snapshot.Questions) != 2 {
		t.Fatalf("snapshot has %d questions, want 2", len(snapshot.Questions))
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	payload := string(data)
	for _, leak := range []string{"is_correct", "correct_answer", "Biscuit"} {
		if strings.Contains(payload, leak) {
			t.Errorf("player-facing snapshot leaks %q:\n%s", leak, payload)
		}
	}

	if !strings.Contains(payload, "Lisbon") || !strings.Contains(payload, "Porto") {
		t.Error("snapshot should still carry option texts")
	}
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewSnapshotCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	if got := cache.Get(ctx, 7); got != nil {
		t.Fatalf("expected miss on empty cache, got %+v", got)
	}

	game := snapshotGame()
	cache.Set(ctx, game)

	got := cache.Get(ctx, 7)
	if got == nil {
		t.Fatal("expected hit after Set")
	}
	if got.Name != game.Name || len(got.Questions) != len(game.Questions) {
		t.Errorf("cached game mismatch: %+v", got)
	}
	// The cache keeps the full set, correct answers included; redaction is
	// the view's job, not the cache's.
	if got.Questions[1].CorrectAnswer != "Biscuit" {
		t.Errorf("cache dropped the canonical answer: %+v", got.Questions[1])
	}

	cache.Invalidate(ctx, 7)
	if got := cache.Get(ctx, 7); got != nil {
		t.Fatalf("expected miss after Invalidate, got %+v", got)
	}
}

func TestSnapshotCacheToleratesRedisDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}

	cache := NewSnapshotCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	mr.Close()

	ctx := context.Background()
	cache.Set(ctx, snapshotGame()) // must not panic
	if got := cache.Get(ctx, 7); got != nil {
		t.Errorf("expected miss when redis is down, got %+v", got)
	}
}
