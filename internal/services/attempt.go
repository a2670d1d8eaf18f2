package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
)

var errNoAttemptInProgress = &ConflictError{Message: "could not submit quiz: no attempt in progress"}

type AttemptService struct {
	store   *repository.Store
	quizzes *QuizService
	log     *logger.Logger
	now     func() time.Time
}

func NewAttemptService(store *repository.Store, quizzes *QuizService, log *logger.Logger) *AttemptService {
	return &AttemptService{
		store:   store,
		quizzes: quizzes,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// StartAttempt opens a new in_progress attempt and returns it together with the
// quiz to answer. Several open attempts per user are allowed; the newest wins
// at submit time.
func (s *AttemptService) StartAttempt(ctx context.Context, quizID, userID int64) (*models.StartAttemptResponse, error) {
	quiz, err := s.quizzes.GetResolved(ctx, quizID)
	if err != nil {
		return nil, err
	}

	attempt := &models.Attempt{QuizID: quizID, UserID: userID, StartTime: s.now()}
	err = s.store.WithTx(ctx, func(tx *repository.Store) error {
		return tx.Attempts.Create(ctx, attempt)
	})
	if err != nil {
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	s.log.Info("attempt started", "attempt_id", attempt.ID, "quiz_id", quizID, "user_id", userID)
	return &models.StartAttemptResponse{AttemptID: attempt.ID, Quiz: quiz}, nil
}

// SubmitAttempt records the answers against the user's newest open attempt,
// scores them and completes the attempt. Nothing is written when it fails.
func (s *AttemptService) SubmitAttempt(ctx context.Context, quizID, userID int64, req models.SubmitAttemptRequest) (*models.Attempt, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	var attempt *models.Attempt
	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		var err error
		attempt, err = tx.Attempts.LatestInProgress(ctx, quizID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return errNoAttemptInProgress
		}
		if err != nil {
			return fmt.Errorf("find open attempt: %w", err)
		}

		questionIDs := make([]int64, len(req.Responses))
		for i, r := range req.Responses {
			questionIDs[i] = r.QuestionID
		}
		correct, err := tx.Questions.CorrectOptionIDs(ctx, questionIDs)
		if err != nil {
			return fmt.Errorf("load answer key: %w", err)
		}

		marks, score := ScoreResponses(req.Responses, correct)
		attempt.Responses = make([]models.Response, len(req.Responses))
		for i, r := range req.Responses {
			resp := models.Response{
				AttemptID:        attempt.ID,
				QuestionID:       r.QuestionID,
				SelectedOptionID: r.SelectedOptionID,
				MarksObtained:    marks[i],
			}
			if err := tx.Attempts.CreateResponse(ctx, &resp); err != nil {
				return fmt.Errorf("record response: %w", err)
			}
			attempt.Responses[i] = resp
		}

		endTime := s.now()
		ok, err := tx.Attempts.Finalize(ctx, attempt.ID, endTime, score)
		if err != nil {
			return fmt.Errorf("finalize attempt: %w", err)
		}
		if !ok {
			return errNoAttemptInProgress
		}

		attempt.Status = models.AttemptCompleted
		attempt.EndTime = &endTime
		attempt.Score = &score
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("attempt submitted", "attempt_id", attempt.ID, "quiz_id", quizID, "user_id", userID, "score", *attempt.Score)
	return attempt, nil
}
