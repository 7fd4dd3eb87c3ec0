package services

import (
	"context"
	"errors"
	"log"
	"time"

	"invito/models"

	"gorm.io/gorm"
)

type PlayService struct {
	db     *gorm.DB
	cache  *SnapshotCache
	access *AccessService
	hub    *Hub
}

func NewPlayService(db *gorm.DB, cache *SnapshotCache, access *AccessService, hub *Hub) *PlayService {
	return &PlayService{db: db, cache: cache, access: access, hub: hub}
}

type PlayRequest struct {
	Answers    []SubmittedAnswer `json:"answers" binding:"required"`
	PlayerName string            `json:"playerName"`
}

type PlayResult struct {
	Score             int `json:"score"`
	CorrectAnswers    int `json:"correctAnswers"`
	TotalQuestions    int `json:"totalQuestions"`
	Rank              int `json:"rank"`
	TotalParticipants int `json:"totalParticipants"`
}

type PlayStatus struct {
	HasPlayed bool `json:"has_played"`
	Score     int  `json:"score,omitempty"`
	Rank      int  `json:"rank,omitempty"`
}

// loadGame fetches a game with its ordered question set, trying the snapshot
// cache first. Games that are missing, soft-deleted or deactivated are
// reported as not playable without revealing which.
func (s *PlayService) loadGame(gameID uint) (*models.Game, error) {
	ctx := context.Background()

	if game := s.cache.Get(ctx, gameID); game != nil {
		if !game.IsActive {
			return nil, &GameNotPlayableError{Missing: true}
		}
		return game, nil
	}

	var game models.Game
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order(`questions."order"`)
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order(`options."order"`)
	}).First(&game, gameID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &GameNotPlayableError{Missing: true}
		}
		return nil, err
	}

	if !game.IsActive {
		return nil, &GameNotPlayableError{Missing: true}
	}

	s.cache.Set(ctx, &game)
	return &game, nil
}

// LoadPlayableGame additionally requires the game to be in active status.
func (s *PlayService) LoadPlayableGame(gameID uint) (*models.Game, error) {
	game, err := s.loadGame(gameID)
	if err != nil {
		return nil, err
	}
	if !game.Playable() {
		return nil, &GameNotPlayableError{Status: game.Status}
	}
	return game, nil
}

// GetSnapshot returns the redacted question set for a grant holder, plus
// their own play status for the confirmation screen.
func (s *PlayService) GetSnapshot(grant *models.AccessGrant, gameID uint) (*GameSnapshot, *PlayStatus, error) {
	game, err := s.LoadPlayableGame(gameID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.access.CheckEventMatch(grant, game); err != nil {
		return nil, nil, err
	}

	status := &PlayStatus{}
	if prev, err := s.findCompleted(gameID, grant); err != nil {
		return nil, nil, err
	} else if prev != nil {
		status.HasPlayed = true
		status.Score = prev.Score
		status.Rank = prev.Rank
	}

	return NewGameSnapshot(game), status, nil
}

// Play runs one submission end to end: guard checks, scoring, transactional
// recording and full re-ranking. The identity and origin pre-checks are fast
// paths only; the composite unique index on participations is what actually
// prevents a double play under concurrency.
func (s *PlayService) Play(grant *models.AccessGrant, gameID uint, origin string, req *PlayRequest) (*PlayResult, error) {
	game, err := s.LoadPlayableGame(gameID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckEventMatch(grant, game); err != nil {
		return nil, err
	}
	if grant.GameID != nil && *grant.GameID != game.ID {
		return nil, ErrEventMismatch
	}

	if len(req.Answers) == 0 {
		return nil, ErrMalformedSubmission
	}

	// Origin check first: blocks any identity replaying from the same address.
	var guarded int64
	if err := s.db.Model(&models.OriginGuard{}).
		Where("game_id = ? AND origin = ?", gameID, origin).
		Count(&guarded).Error; err != nil {
		return nil, err
	}
	if guarded > 0 {
		return nil, &AlreadyPlayedError{ByOrigin: true}
	}

	if prev, err := s.findCompleted(gameID, grant); err != nil {
		return nil, err
	} else if prev != nil {
		return nil, &AlreadyPlayedError{Score: prev.Score, Rank: prev.Rank}
	}

	scored := Score(game.Questions, req.Answers)

	now := time.Now()
	participation := models.Participation{
		GameID:         gameID,
		PlayerType:     grant.PlayerType,
		PlayerRef:      grant.Identity(),
		PlayerName:     s.access.PlayerName(grant, req.PlayerName),
		Score:          scored.Total,
		CorrectAnswers: scored.CorrectAnswers,
		TotalAnswers:   scored.TotalAnswers,
		Completed:      true,
		CompletedAt:    &now,
	}

	var rank, total int
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&participation).Error; err != nil {
			return err
		}

		records := make([]models.AnswerRecord, len(scored.Graded))
		for i, graded := range scored.Graded {
			records[i] = models.AnswerRecord{
				ParticipationID: participation.ID,
				QuestionID:      graded.QuestionID,
				Submitted:       graded.Submitted,
				IsCorrect:       graded.IsCorrect,
				Points:          graded.Points,
				TimeSpent:       graded.TimeSpent,
			}
		}
		if len(records) > 0 {
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}

		var err error
		rank, total, err = rewriteRanks(tx, gameID, participation.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race to a concurrent identical play.
			if prev, ferr := s.findCompleted(gameID, grant); ferr == nil && prev != nil {
				return nil, &AlreadyPlayedError{Score: prev.Score, Rank: prev.Rank}
			}
			return nil, &AlreadyPlayedError{}
		}
		return nil, err
	}

	// Secondary bookkeeping never fails the request.
	s.recordOriginGuard(gameID, origin)
	s.access.MarkPlayed(grant.ID, scored.Total)

	if s.hub != nil {
		if entries, err := s.GetLeaderboard(gameID, nil); err == nil {
			s.hub.BroadcastToGame(gameID, "leaderboard_update", entries)
		}
	}

	return &PlayResult{
		Score:             scored.Total,
		CorrectAnswers:    scored.CorrectAnswers,
		TotalQuestions:    len(game.Questions),
		Rank:              rank,
		TotalParticipants: total,
	}, nil
}

// rewriteRanks recomputes and persists the rank of every completed
// participation of a game. Returns the rank of ownID and the total count.
// Full rewrite on every play is fine at party-game sizes.
func rewriteRanks(tx *gorm.DB, gameID uint, ownID uint) (int, int, error) {
	var all []models.Participation
	if err := tx.Where("game_id = ? AND completed = ?", gameID, true).Find(&all).Error; err != nil {
		return 0, 0, err
	}

	all = RankParticipations(all)

	rank := 0
	for i := range all {
		if err := tx.Model(&models.Participation{}).
			Where("id = ?", all[i].ID).
			Update("rank", all[i].Rank).Error; err != nil {
			return 0, 0, err
		}
		if all[i].ID == ownID {
			rank = all[i].Rank
		}
	}

	return rank, len(all), nil
}

// GetLeaderboard returns the public leaderboard. Persisted ranks are checked
// against the freshly sorted order and self-healed when they drifted.
func (s *PlayService) GetLeaderboard(gameID uint, grant *models.AccessGrant) ([]LeaderboardEntry, error) {
	game, err := s.loadGame(gameID)
	if err != nil {
		return nil, err
	}
	if grant != nil {
		if err := s.access.CheckEventMatch(grant, game); err != nil {
			return nil, err
		}
	}

	participations, err := s.rankedParticipations(gameID)
	if err != nil {
		return nil, err
	}

	identity := ""
	if grant != nil {
		identity = grant.Identity()
	}

	entries := make([]LeaderboardEntry, len(participations))
	for i, p := range participations {
		entries[i] = LeaderboardEntry{
			Rank:           p.Rank,
			PlayerName:     p.PlayerName,
			Score:          p.Score,
			CorrectAnswers: p.CorrectAnswers,
			TotalAnswers:   p.TotalAnswers,
			IsTop3:         p.Rank <= 3,
			You:            identity != "" && p.PlayerRef == identity && p.PlayerType == grant.PlayerType,
		}
	}

	return entries, nil
}

// FullLeaderboard is the organizer view: raw participation rows including
// internal identifiers, ranks self-healed like the public path.
func (s *PlayService) FullLeaderboard(gameID uint) ([]models.Participation, error) {
	return s.rankedParticipations(gameID)
}

func (s *PlayService) rankedParticipations(gameID uint) ([]models.Participation, error) {
	var participations []models.Participation
	if err := s.db.Where("game_id = ? AND completed = ?", gameID, true).
		Find(&participations).Error; err != nil {
		return nil, err
	}

	SortForRank(participations)
	if ranksDrifted(participations) {
		log.Printf("Leaderboard ranks drifted for game %d, recomputing", gameID)
		for i := range participations {
			participations[i].Rank = i + 1
			if err := s.db.Model(&models.Participation{}).
				Where("id = ?", participations[i].ID).
				Update("rank", participations[i].Rank).Error; err != nil {
				return nil, err
			}
		}
	}

	return participations, nil
}

// MyResult returns the caller's completed participation for a game.
func (s *PlayService) MyResult(gameID uint, grant *models.AccessGrant) (*models.Participation, error) {
	game, err := s.loadGame(gameID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckEventMatch(grant, game); err != nil {
		return nil, err
	}

	prev, err := s.findCompleted(gameID, grant)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		return nil, ErrNoResult
	}
	return prev, nil
}

func (s *PlayService) findCompleted(gameID uint, grant *models.AccessGrant) (*models.Participation, error) {
	var participation models.Participation
	err := s.db.Where("game_id = ? AND player_type = ? AND player_ref = ? AND completed = ?",
		gameID, grant.PlayerType, grant.Identity(), true).
		First(&participation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &participation, nil
}

func (s *PlayService) recordOriginGuard(gameID uint, origin string) {
	guard := models.OriginGuard{GameID: gameID, Origin: origin}
	if err := s.db.Create(&guard).Error; err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Printf("Failed to record origin guard for game %d: %v", gameID, err)
	}
}
