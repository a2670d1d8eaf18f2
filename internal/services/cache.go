package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"quizhub-backend/internal/models"
)

// QuizCache stores resolved quizzes between mapping changes.
//
// Entries are keyed by a per-quiz version. Get reports the current version
// alongside the entry (nil on a miss); a reader that then loads the quiz from
// the database writes it back with Set under that same version. Invalidate
// bumps the version, so a write-back racing a mapping change lands on a key
// nobody reads any more.
type QuizCache interface {
	Get(ctx context.Context, quizID int64) (*models.ResolvedQuiz, string, error)
	Set(ctx context.Context, version string, quiz *models.ResolvedQuiz) error
	Invalidate(ctx context.Context, quizID int64) error
}

type RedisQuizCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuizCache(client *redis.Client, ttl time.Duration) *RedisQuizCache {
	return &RedisQuizCache{client: client, ttl: ttl}
}

func quizVersionKey(quizID int64) string {
	return fmt.Sprintf("quiz:version:%d", quizID)
}

func quizCacheKey(quizID int64, version string) string {
	return fmt.Sprintf("quiz:resolved:%d:%s", quizID, version)
}

func (c *RedisQuizCache) Get(ctx context.Context, quizID int64) (*models.ResolvedQuiz, string, error) {
	version, err := c.client.Get(ctx, quizVersionKey(quizID)).Result()
	if errors.Is(err, redis.Nil) {
		version = "0"
	} else if err != nil {
		return nil, "", err
	}

	raw, err := c.client.Get(ctx, quizCacheKey(quizID, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, nil
	}
	if err != nil {
		return nil, version, err
	}

	var quiz models.ResolvedQuiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, version, fmt.Errorf("decode cached quiz %d: %w", quizID, err)
	}
	return &quiz, version, nil
}

func (c *RedisQuizCache) Set(ctx context.Context, version string, quiz *models.ResolvedQuiz) error {
	raw, err := json.Marshal(quiz)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, quizCacheKey(quiz.ID, version), raw, c.ttl).Err()
}

func (c *RedisQuizCache) Invalidate(ctx context.Context, quizID int64) error {
	return c.client.Incr(ctx, quizVersionKey(quizID)).Err()
}

type noopQuizCache struct{}

func (noopQuizCache) Get(context.Context, int64) (*models.ResolvedQuiz, string, error) {
	return nil, "", nil
}
func (noopQuizCache) Set(context.Context, string, *models.ResolvedQuiz) error { return nil }
func (noopQuizCache) Invalidate(context.Context, int64) error                 { return nil }
