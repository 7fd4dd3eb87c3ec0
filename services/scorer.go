package services

import (
	"strings"

	"invito/models"
)

type SubmittedAnswer struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
	TimeSpent  int    `json:"timeSpent"` // seconds, recorded but never scored
}

type GradedAnswer struct {
	QuestionID uint
	Submitted  string
	IsCorrect  bool
	Points     int
	TimeSpent  int
}

type ScoreResult struct {
	Total          int
	CorrectAnswers int
	TotalAnswers   int
	Graded         []GradedAnswer
}

// Score grades a batch of submitted answers against a game's question set.
// It is a pure function: identical inputs always produce identical output.
// Answers naming a question id not present in the set are silently skipped,
// and each question is credited at most once: if a batch repeats a question
// id, the first submission wins and the rest are dropped.
func Score(questions []models.Question, answers []SubmittedAnswer) ScoreResult {
	byID := make(map[uint]*models.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	result := ScoreResult{}
	seen := make(map[uint]bool, len(answers))
	for _, ans := range answers {
		question, ok := byID[ans.QuestionID]
		if !ok {
			continue
		}
		if seen[question.ID] {
			continue
		}
		seen[question.ID] = true

		correct := gradeAnswer(question, ans.Answer)
		points := 0
		if correct {
			points = question.Points
			result.CorrectAnswers++
		}

		result.Graded = append(result.Graded, GradedAnswer{
			QuestionID: question.ID,
			Submitted:  ans.Answer,
			IsCorrect:  correct,
			Points:     points,
			TimeSpent:  ans.TimeSpent,
		})
		result.Total += points
		result.TotalAnswers++
	}

	return result
}

func gradeAnswer(question *models.Question, submitted string) bool {
	switch question.Type {
	case models.QuestionTypeMultipleChoice:
		for _, option := range question.Options {
			if option.IsCorrect {
				return submitted == option.Text
			}
		}
		// No option flagged correct: never credit.
		return false
	case models.QuestionTypeText:
		return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(question.CorrectAnswer))
	case models.QuestionTypeBoolean:
		// Strict equality, no case-folding.
		return submitted == question.CorrectAnswer
	default:
		// photo, ordering and friends are graded manually; record with zero points.
		return false
	}
}
