package services

import (
	"testing"
	"time"

	"invito/models"
)

func completedAt(t time.Time) *time.Time {
	return &t
}

func TestRankParticipationsOrdering(t *testing.T) {
	base := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

	participations := []models.Participation{
		{ID: 1, PlayerName: "Ana", Score: 30, CompletedAt: completedAt(base.Add(3 * time.Minute))},
		{ID: 2, PlayerName: "Bo", Score: 50, CompletedAt: completedAt(base.Add(2 * time.Minute))},
		{ID: 3, PlayerName: "Cy", Score: 50, CompletedAt: completedAt(base.Add(1 * time.Minute))},
		{ID: 4, PlayerName: "Di", Score: 10, CompletedAt: completedAt(base)},
	}

	ranked := RankParticipations(participations)

	wantOrder := []uint{3, 2, 1, 4} // equal scores: earlier completion wins
	for i, wantID := range wantOrder {
		if ranked[i].ID != wantID {
			t.Fatalf("position %d = participation %d, want %d", i, ranked[i].ID, wantID)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("participation %d rank = %d, want %d", ranked[i].ID, ranked[i].Rank, i+1)
		}
	}
}

func TestRankParticipationsContiguous(t *testing.T) {
	base := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

	var participations []models.Participation
	for i := 0; i < 25; i++ {
		participations = append(participations, models.Participation{
			ID:          uint(i + 1),
			Score:       (i * 7) % 40, // plenty of ties
			CompletedAt: completedAt(base.Add(time.Duration(i) * time.Second)),
		})
	}

	ranked := RankParticipations(participations)

	for i := range ranked {
		if ranked[i].Rank != i+1 {
			t.Fatalf("ranks not contiguous at position %d: got %d", i, ranked[i].Rank)
		}
		if i > 0 && ranked[i].Score > ranked[i-1].Score {
			t.Fatalf("scores not descending at position %d", i)
		}
	}
}

func TestRanksDrifted(t *testing.T) {
	base := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

	participations := []models.Participation{
		{ID: 1, Score: 50, Rank: 1, CompletedAt: completedAt(base)},
		{ID: 2, Score: 30, Rank: 2, CompletedAt: completedAt(base.Add(time.Minute))},
	}

	SortForRank(participations)
	if ranksDrifted(participations) {
		t.Error("consistent ranks reported as drifted")
	}

	// A new play inserted above an existing row leaves a stale persisted rank.
	participations = append(participations, models.Participation{
		ID: 3, Score: 40, Rank: 0, CompletedAt: completedAt(base.Add(2 * time.Minute)),
	})
	SortForRank(participations)
	if !ranksDrifted(participations) {
		t.Error("stale ranks not reported as drifted")
	}
}

func TestSortForRankNilCompletionSortsLast(t *testing.T) {
	base := time.Date(2025, 6, 14, 18, 0, 0, 0, time.UTC)

	participations := []models.Participation{
		{ID: 1, Score: 20, CompletedAt: nil},
		{ID: 2, Score: 20, CompletedAt: completedAt(base)},
	}

	SortForRank(participations)
	if participations[0].ID != 2 {
		t.Errorf("participation with a completion timestamp should outrank one without")
	}
}
