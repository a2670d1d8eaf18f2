package services

import (
	"github.com/shopspring/decimal"

	"quizhub-backend/internal/models"
)

// ScoreResponses marks each answer against the answer key and returns the
// percentage of correct answers rounded to two decimals. Every question weighs
// the same regardless of its mapped marks. correct maps question id to the set
// of its correct option ids; unknown questions score 0.
func ScoreResponses(answers []models.ResponseInput, correct map[int64]map[int64]bool) ([]int, float64) {
	marks := make([]int, len(answers))
	if len(answers) == 0 {
		return marks, 0
	}

	right := 0
	for i, a := range answers {
		if correct[a.QuestionID][a.SelectedOptionID] {
			marks[i] = 1
			right++
		}
	}

	score, _ := decimal.NewFromInt(int64(right)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(len(answers)))).
		Round(2).
		Float64()
	return marks, score
}
