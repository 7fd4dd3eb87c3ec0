package services

import (
	"errors"
	"path/filepath"
	"testing"

	"invito/models"

	miniredis "github.com/alicebob/miniredis/v2"
	sqlite "github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// setupPlayService wires a PlayService against a throwaway sqlite database
// and a miniredis-backed snapshot cache, mirroring the production wiring.
func setupPlayService(t *testing.T) (*PlayService, *gorm.DB) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "play.db")), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Event{}, &models.Game{}, &models.Question{}, &models.Option{},
		&models.AccessGrant{}, &models.Participation{}, &models.AnswerRecord{},
		&models.OriginGuard{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cache := NewSnapshotCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.Close() })

	return NewPlayService(db, cache, NewAccessService(db), nil), db
}

// seedActiveGame persists an active game with one 10-point multiple choice
// question and one 5-point text question.
func seedActiveGame(t *testing.T, db *gorm.DB) *models.Game {
	t.Helper()

	event := models.Event{ID: 1, UserID: 1, Title: "Ana & Rui"}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	game := models.Game{
		EventID:  event.ID,
		Name:     "Reception Trivia",
		Type:     models.GameTypeTrivia,
		Status:   models.GameStatusActive,
		IsActive: true,
		Questions: []models.Question{
			{
				Type:   models.QuestionTypeMultipleChoice,
				Prompt: "Where did the couple meet?",
				Points: 10,
				Order:  1,
				Options: []models.Option{
					{Text: "Lisbon", IsCorrect: true, Order: 1},
					{Text: "Porto", IsCorrect: false, Order: 2},
				},
			},
			{
				Type:          models.QuestionTypeText,
				Prompt:        "Name of the couple's dog?",
				CorrectAnswer: "Biscuit",
				Points:        5,
				Order:         2,
			},
		},
	}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return &game
}

func guestGrant(guestID uint) *models.AccessGrant {
	id := guestID
	return &models.AccessGrant{
		ID:         guestID,
		EventID:    1,
		PlayerType: models.PlayerTypeIndividual,
		GuestID:    &id,
	}
}

func correctAnswers(game *models.Game) []SubmittedAnswer {
	return []SubmittedAnswer{
		{QuestionID: game.Questions[0].ID, Answer: "Lisbon"},
		{QuestionID: game.Questions[1].ID, Answer: "biscuit"},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestPlayRecordsParticipationAndRanks(t *testing.T) {
	svc, db := setupPlayService(t)
	game := seedActiveGame(t, db)

	result, err := svc.Play(guestGrant(1), game.ID, "10.0.0.1", &PlayRequest{Answers: correctAnswers(game)})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if result.Score != 15 || result.CorrectAnswers != 2 || result.Rank != 1 || result.TotalParticipants != 1 {
		t.Errorf("result = %+v, want score 15, 2 correct, rank 1 of 1", result)
	}

	wrong := []SubmittedAnswer{{QuestionID: game.Questions[0].ID, Answer: "Porto"}}
	second, err := svc.Play(guestGrant(2), game.ID, "10.0.0.2", &PlayRequest{Answers: wrong})
	if err != nil {
		t.Fatalf("second Play: %v", err)
	}
	if second.Score != 0 || second.Rank != 2 || second.TotalParticipants != 2 {
		t.Errorf("second result = %+v, want score 0, rank 2 of 2", second)
	}

	if n := countRows(t, db, &models.Participation{}); n != 2 {
		t.Errorf("participations = %d, want 2", n)
	}
	if n := countRows(t, db, &models.AnswerRecord{}); n != 3 {
		t.Errorf("answer records = %d, want 3", n)
	}
}

func TestPlayRepeatIdentityRejectedWithPriorScore(t *testing.T) {
	svc, db := setupPlayService(t)
	game := seedActiveGame(t, db)

	first, err := svc.Play(guestGrant(1), game.ID, "10.0.0.1", &PlayRequest{Answers: correctAnswers(game)})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}

	// Fresh origin so the identity, not the address, is what gets rejected.
	wrong := []SubmittedAnswer{{QuestionID: game.Questions[0].ID, Answer: "Porto"}}
	_, err = svc.Play(guestGrant(1), game.ID, "10.0.0.9", &PlayRequest{Answers: wrong})

	var already *AlreadyPlayedError
	if !errors.As(err, &already) {
		t.Fatalf("err = %v, want AlreadyPlayedError", err)
	}
	if already.ByOrigin {
		t.Error("repeat identity flagged as an origin rejection")
	}
	if already.Score != first.Score || already.Rank != first.Rank {
		t.Errorf("prior result = score %d rank %d, want score %d rank %d",
			already.Score, already.Rank, first.Score, first.Rank)
	}
	if n := countRows(t, db, &models.Participation{}); n != 1 {
		t.Errorf("participations = %d, want 1: the repeat must not write", n)
	}
}

func TestPlayRepeatOriginRejectedAcrossIdentities(t *testing.T) {
	svc, db := setupPlayService(t)
	game := seedActiveGame(t, db)

	if _, err := svc.Play(guestGrant(1), game.ID, "10.0.0.1", &PlayRequest{Answers: correctAnswers(game)}); err != nil {
		t.Fatalf("Play: %v", err)
	}

	_, err := svc.Play(guestGrant(2), game.ID, "10.0.0.1", &PlayRequest{Answers: correctAnswers(game)})

	var already *AlreadyPlayedError
	if !errors.As(err, &already) {
		t.Fatalf("err = %v, want AlreadyPlayedError", err)
	}
	if !already.ByOrigin {
		t.Error("want ByOrigin for a second identity on a used address")
	}
	if n := countRows(t, db, &models.Participation{}); n != 1 {
		t.Errorf("participations = %d, want 1", n)
	}
}

func TestPlayEventMismatchWritesNothing(t *testing.T) {
	svc, db := setupPlayService(t)
	game := seedActiveGame(t, db)

	grant := guestGrant(1)
	grant.EventID = 99

	_, err := svc.Play(grant, game.ID, "10.0.0.1", &PlayRequest{Answers: correctAnswers(game)})
	if !errors.Is(err, ErrEventMismatch) {
		t.Fatalf("err = %v, want ErrEventMismatch", err)
	}

	if n := countRows(t, db, &models.Participation{}); n != 0 {
		t.Errorf("participations = %d, want 0", n)
	}
	if n := countRows(t, db, &models.AnswerRecord{}); n != 0 {
		t.Errorf("answer records = %d, want 0", n)
	}
}

func TestPlayEmptyBatchWritesNothing(t *testing.T) {
	svc, db := setupPlayService(t)
	game := seedActiveGame(t, db)

	_, err := svc.Play(guestGrant(1), game.ID, "10.0.0.1", &PlayRequest{Answers: nil})
	if !errors.Is(err, ErrMalformedSubmission) {
		t.Fatalf("err = %v, want ErrMalformedSubmission", err)
	}

	if n := countRows(t, db, &models.Participation{}); n != 0 {
		t.Errorf("participations = %d, want 0", n)
	}
	if n := countRows(t, db, &models.OriginGuard{}); n != 0 {
		t.Errorf("origin guards = %d, want 0: a rejected play must not burn the address", n)
	}
}

func TestPlayCreditsRepeatedQuestionOnce(t *testing.T) {
	svc, db := setupPlayService(t)
	game := seedActiveGame(t, db)

	repeated := []SubmittedAnswer{
		{QuestionID: game.Questions[0].ID, Answer: "Lisbon"},
		{QuestionID: game.Questions[0].ID, Answer: "Lisbon"},
		{QuestionID: game.Questions[0].ID, Answer: "Lisbon"},
	}

	result, err := svc.Play(guestGrant(1), game.ID, "10.0.0.1", &PlayRequest{Answers: repeated})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if result.Score != 10 || result.CorrectAnswers != 1 {
		t.Errorf("result = %+v, want score 10 from a single credit", result)
	}

	var records []models.AnswerRecord
	if err := db.Find(&records).Error; err != nil {
		t.Fatalf("load answer records: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("answer records = %d, want 1 per question", len(records))
	}
}

func TestPlayGameScopedGrantRejectsOtherGames(t *testing.T) {
	svc, db := setupPlayService(t)
	game := seedActiveGame(t, db)

	otherGame := game.ID + 1
	grant := guestGrant(1)
	grant.GameID = &otherGame

	_, err := svc.Play(grant, game.ID, "10.0.0.1", &PlayRequest{Answers: correctAnswers(game)})
	if !errors.Is(err, ErrEventMismatch) {
		t.Fatalf("err = %v, want ErrEventMismatch", err)
	}
}

func TestParticipationIdentityUniqueIndex(t *testing.T) {
	_, db := setupPlayService(t)
	game := seedActiveGame(t, db)

	row := models.Participation{
		GameID:     game.ID,
		PlayerType: models.PlayerTypeIndividual,
		PlayerRef:  "guest:1",
		PlayerName: "Ana",
		Completed:  true,
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}

	dup := models.Participation{
		GameID:     game.ID,
		PlayerType: models.PlayerTypeIndividual,
		PlayerRef:  "guest:1",
		PlayerName: "Ana again",
		Completed:  true,
	}
	err := db.Create(&dup).Error
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("err = %v, want gorm.ErrDuplicatedKey from the identity index", err)
	}
}
