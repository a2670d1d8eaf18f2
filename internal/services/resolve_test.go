package services

import (
	"encoding/json"
	"strings"
	"testing"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func catalogQuestion(id int64, options ...string) *models.Question {
	q := &models.Question{ID: id, Text: "Question"}
	for i, text := range options {
		correct := i == 0
		q.Options = append(q.Options, models.QuestionOption{ID: id*10 + int64(i), QuestionID: id, Text: text, IsCorrect: &correct})
	}
	return q
}

func TestResolveQuiz_OrdersByNumberWithMissingLast(t *testing.T) {
	quiz := &models.Quiz{
		ID:    1,
		Title: "Ordering",
		Questions: []models.QuizQuestion{
			{QuestionID: 1, QuestionNumber: nil, Question: catalogQuestion(1, "a")},
			{QuestionID: 2, QuestionNumber: intPtr(3), Question: catalogQuestion(2, "a")},
			{QuestionID: 3, QuestionNumber: intPtr(1), Question: catalogQuestion(3, "a")},
			{QuestionID: 4, QuestionNumber: nil, Question: catalogQuestion(4, "a")},
			{QuestionID: 5, QuestionNumber: intPtr(1), Question: catalogQuestion(5, "a")},
		},
	}

	got, err := resolveQuiz(quiz, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int64{3, 5, 2, 1, 4}
	if len(got.Questions) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(got.Questions))
	}
	for i, id := range want {
		if got.Questions[i].ID != id {
			t.Fatalf("position %d: expected question %d, got %d", i, id, got.Questions[i].ID)
		}
	}
}

func TestResolveQuiz_SkipsBrokenQuestions(t *testing.T) {
	quiz := &models.Quiz{
		ID: 1,
		Questions: []models.QuizQuestion{
			{QuestionID: 1, QuestionNumber: intPtr(1), Marks: 5, Question: nil},
			{QuestionID: 2, QuestionNumber: intPtr(2), Marks: 3, Question: catalogQuestion(2)},
			{QuestionID: 3, QuestionNumber: intPtr(3), Marks: 2, Question: catalogQuestion(3, "yes", "no")},
		},
	}

	got, err := resolveQuiz(quiz, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Questions) != 1 || got.Questions[0].ID != 3 {
		t.Fatalf("expected only question 3, got %+v", got.Questions)
	}
	q := got.Questions[0]
	if q.Marks != 2 || len(q.Options) != 2 || q.Options[0].Text != "yes" {
		t.Fatalf("unexpected resolved question %+v", q)
	}
}

func TestResolveQuiz_NeverExposesAnswerKey(t *testing.T) {
	quiz := &models.Quiz{
		ID:        1,
		Questions: []models.QuizQuestion{{QuestionID: 1, Question: catalogQuestion(1, "a", "b")}},
	}
	got, err := resolveQuiz(quiz, logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, _ := json.Marshal(got)
	if strings.Contains(string(raw), "is_correct") {
		t.Fatalf("resolved quiz leaked answer key: %s", raw)
	}
}

func TestResolveQuiz_NotFound(t *testing.T) {
	tests := []struct {
		name string
		quiz *models.Quiz
	}{
		{"no mappings", &models.Quiz{ID: 1}},
		{"no valid questions", &models.Quiz{ID: 1, Questions: []models.QuizQuestion{
			{QuestionID: 1},
			{QuestionID: 2, Question: catalogQuestion(2)},
		}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolveQuiz(tc.quiz, logger.Nop())
			if _, ok := err.(*NotFoundError); !ok {
				t.Fatalf("expected *NotFoundError, got %T (%v)", err, err)
			}
		})
	}
}
