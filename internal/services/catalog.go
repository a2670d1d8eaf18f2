package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
)

// CatalogService is the read-only view over the question bank.
type CatalogService struct {
	questions *repository.QuestionRepo
}

func NewCatalogService(questions *repository.QuestionRepo) *CatalogService {
	return &CatalogService{questions: questions}
}

// GetQuestion returns a question with its options and no answer key.
func (s *CatalogService) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Message: "Question not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	stripped := q.WithoutAnswers()
	return &stripped, nil
}

// ListQuestions returns the catalog for quiz authors picking questions to map.
// Answer keys are withheld like in GetQuestion.
func (s *CatalogService) ListQuestions(ctx context.Context) ([]models.Question, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	out := make([]models.Question, len(questions))
	for i, q := range questions {
		out[i] = q.WithoutAnswers()
	}
	return out, nil
}
