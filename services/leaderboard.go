package services

import (
	"sort"

	"invito/models"
)

type LeaderboardEntry struct {
	Rank           int    `json:"rank"`
	PlayerName     string `json:"playerName"`
	Score          int    `json:"score"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalAnswers   int    `json:"totalAnswers"`
	IsTop3         bool   `json:"isTop3"`
	You            bool   `json:"you,omitempty"`
}

// SortForRank orders completed participations by score descending, ties
// broken by earlier completion. This ordering is the single source of truth
// for rank everywhere; persisted ranks are derived from it.
func SortForRank(participations []models.Participation) {
	sort.SliceStable(participations, func(a, b int) bool {
		if participations[a].Score != participations[b].Score {
			return participations[a].Score > participations[b].Score
		}
		ta, tb := participations[a].CompletedAt, participations[b].CompletedAt
		switch {
		case ta == nil:
			return false
		case tb == nil:
			return true
		default:
			return ta.Before(*tb)
		}
	})
}

// RankParticipations sorts and assigns contiguous 1-based ranks.
func RankParticipations(participations []models.Participation) []models.Participation {
	SortForRank(participations)
	for i := range participations {
		participations[i].Rank = i + 1
	}
	return participations
}

// ranksDrifted reports whether any persisted rank disagrees with the
// participation's position in the sorted order.
func ranksDrifted(sorted []models.Participation) bool {
	for i := range sorted {
		if sorted[i].Rank != i+1 {
			return true
		}
	}
	return false
}
