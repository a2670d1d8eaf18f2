package services

import (
	"sort"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
)

// resolveQuiz turns a stored quiz into the view served to quiz takers.
// Mappings are ordered by question_number with unnumbered ones last; equal
// numbers keep their mapping order. Mappings whose question is gone or has no
// options are skipped. A quiz left with nothing to answer is NotFound.
func resolveQuiz(quiz *models.Quiz, log *logger.Logger) (*models.ResolvedQuiz, error) {
	if len(quiz.Questions) == 0 {
		return nil, &NotFoundError{Message: "Quiz has no questions"}
	}

	mappings := make([]models.QuizQuestion, len(quiz.Questions))
	copy(mappings, quiz.Questions)
	sort.SliceStable(mappings, func(i, j int) bool {
		a, b := mappings[i].QuestionNumber, mappings[j].QuestionNumber
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})

	resolved := &models.ResolvedQuiz{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Duration:       quiz.Duration,
		TotalQuestions: quiz.TotalQuestions,
		TotalScore:     quiz.TotalScore,
		CreatorID:      quiz.CreatorID,
		CreatedAt:      quiz.CreatedAt,
		Questions:      make([]models.ResolvedQuestion, 0, len(mappings)),
	}

	for _, m := range mappings {
		if m.Question == nil {
			log.Warn("skipping mapped question missing from catalog", "quiz_id", quiz.ID, "question_id", m.QuestionID)
			continue
		}
		if len(m.Question.Options) == 0 {
			log.Warn("skipping mapped question without options", "quiz_id", quiz.ID, "question_id", m.QuestionID)
			continue
		}

		rq := models.ResolvedQuestion{
			ID:      m.QuestionID,
			Text:    m.Question.Text,
			Marks:   m.Marks,
			Options: make([]models.ResolvedOption, len(m.Question.Options)),
		}
		for i, opt := range m.Question.Options {
			rq.Options[i] = models.ResolvedOption{ID: opt.ID, Text: opt.Text}
		}
		resolved.Questions = append(resolved.Questions, rq)
	}

	if len(resolved.Questions) == 0 {
		return nil, &NotFoundError{Message: "Quiz has no valid questions"}
	}
	return resolved, nil
}
