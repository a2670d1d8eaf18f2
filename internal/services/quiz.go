package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
)

type QuizService struct {
	store *repository.Store
	cache QuizCache
	log   *logger.Logger
}

// NewQuizService wires the quiz definition store. A nil cache disables caching
// of resolved quizzes.
func NewQuizService(store *repository.Store, cache QuizCache, log *logger.Logger) *QuizService {
	if cache == nil {
		cache = noopQuizCache{}
	}
	return &QuizService{store: store, cache: cache, log: log}
}

func (s *QuizService) Create(ctx context.Context, creatorID int64, req models.CreateQuizRequest) (*models.Quiz, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		CreatorID:      creatorID,
		Title:          req.Title,
		TotalQuestions: req.TotalQuestions,
		TotalScore:     req.TotalScore,
		Duration:       req.Duration,
	}
	if err := s.store.Quizzes.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

// MapQuestions replaces the quiz's question mappings and returns the freshly
// resolved quiz.
func (s *QuizService) MapQuestions(ctx context.Context, quizID int64, req models.MapQuestionsRequest) (*models.ResolvedQuiz, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx *repository.Store) error {
		exists, err := tx.Quizzes.Exists(ctx, quizID)
		if err != nil {
			return fmt.Errorf("check quiz: %w", err)
		}
		if !exists {
			return &NotFoundError{Message: "Quiz not found"}
		}
		if err := tx.Quizzes.ReplaceMappings(ctx, quizID, req.Questions); err != nil {
			return fmt.Errorf("replace mappings: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, quizID); err != nil {
		s.log.Warn("failed to invalidate resolved quiz", "quiz_id", quizID, "error", err)
	}
	return s.GetResolved(ctx, quizID)
}

// GetResolved returns the quiz as served to quiz takers, without answer keys.
func (s *QuizService) GetResolved(ctx context.Context, quizID int64) (*models.ResolvedQuiz, error) {
	cached, version, err := s.cache.Get(ctx, quizID)
	if err != nil {
		s.log.Warn("resolved quiz cache read failed", "quiz_id", quizID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	quiz, err := s.store.Quizzes.GetByID(ctx, quizID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Message: "Quiz not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}

	resolved, err := resolveQuiz(quiz, s.log)
	if err != nil {
		return nil, err
	}

	// Without a version the read failed; skip the write-back.
	if version != "" {
		if err := s.cache.Set(ctx, version, resolved); err != nil {
			s.log.Warn("resolved quiz cache write failed", "quiz_id", quizID, "error", err)
		}
	}
	return resolved, nil
}

func (s *QuizService) ListAll(ctx context.Context, p models.Principal) ([]*models.Quiz, error) {
	quizzes, err := s.store.Quizzes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return redactQuizzes(quizzes, p), nil
}

func (s *QuizService) ListByCreator(ctx context.Context, p models.Principal) ([]*models.Quiz, error) {
	quizzes, err := s.store.Quizzes.ListByCreator(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list own quizzes: %w", err)
	}
	return redactQuizzes(quizzes, p), nil
}

// redactQuizzes strips answer keys from quizzes the principal does not own.
func redactQuizzes(quizzes []*models.Quiz, p models.Principal) []*models.Quiz {
	for _, quiz := range quizzes {
		if p.IsAdmin || quiz.CreatorID == p.UserID {
			continue
		}
		for i := range quiz.Questions {
			if q := quiz.Questions[i].Question; q != nil {
				stripped := q.WithoutAnswers()
				quiz.Questions[i].Question = &stripped
			}
		}
	}
	return quizzes
}
