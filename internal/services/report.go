package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
)

type ReportService struct {
	attempts *repository.AttemptRepo
}

func NewReportService(attempts *repository.AttemptRepo) *ReportService {
	return &ReportService{attempts: attempts}
}

// Participants lists every attempt at the quiz, open or completed.
func (s *ReportService) Participants(ctx context.Context, quizID int64) ([]*models.Attempt, error) {
	attempts, err := s.attempts.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return attempts, nil
}

// UserResponse summarizes the user's latest attempt, or returns nil when the
// user never started the quiz.
func (s *ReportService) UserResponse(ctx context.Context, quizID, userID int64) (*models.UserResponse, error) {
	attempt, err := s.attempts.Latest(ctx, quizID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load latest attempt: %w", err)
	}

	summary := &models.UserResponse{
		AttemptID: attempt.ID,
		StartTime: attempt.StartTime,
		EndTime:   attempt.EndTime,
		Status:    attempt.Status,
		Responses: make([]models.AnswerSummary, len(attempt.Responses)),
	}
	for i, r := range attempt.Responses {
		summary.Responses[i] = models.AnswerSummary{QuestionID: r.QuestionID, SelectedOptionID: r.SelectedOptionID}
	}
	return summary, nil
}

// Scores reports one row per finished attempt.
func (s *ReportService) Scores(ctx context.Context, quizID int64) ([]models.Score, error) {
	scores, err := s.attempts.CompletedScores(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("aggregate scores: %w", err)
	}
	return scores, nil
}
