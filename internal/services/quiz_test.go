package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
	"quizhub-backend/internal/testutil"
)

type memoryQuizCache struct {
	items         map[string]*models.ResolvedQuiz
	versions      map[int64]int
	invalidations int
	// beforeSet, when set, runs once ahead of the next write-back.
	beforeSet func()
}

func newMemoryQuizCache() *memoryQuizCache {
	return &memoryQuizCache{
		items:    make(map[string]*models.ResolvedQuiz),
		versions: make(map[int64]int),
	}
}

func memoryCacheKey(id int64, version string) string {
	return strconv.FormatInt(id, 10) + ":" + version
}

func (c *memoryQuizCache) Get(_ context.Context, id int64) (*models.ResolvedQuiz, string, error) {
	version := strconv.Itoa(c.versions[id])
	return c.items[memoryCacheKey(id, version)], version, nil
}

func (c *memoryQuizCache) Set(_ context.Context, version string, q *models.ResolvedQuiz) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	c.items[memoryCacheKey(q.ID, version)] = q
	return nil
}

func (c *memoryQuizCache) Invalidate(_ context.Context, id int64) error {
	c.invalidations++
	c.versions[id]++
	return nil
}

type quizFixture struct {
	store   *repository.Store
	svc     *QuizService
	cache   *memoryQuizCache
	creator *models.User
	q1, q2  *models.Question
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	store := testutil.NewStore(t)
	cache := newMemoryQuizCache()
	return &quizFixture{
		store:   store,
		svc:     NewQuizService(store, cache, logger.Nop()),
		cache:   cache,
		creator: testutil.SeedUser(t, store, "creator", false),
		q1: testutil.SeedQuestion(t, store, "What is 2+2?",
			testutil.Option{Text: "4", Correct: true},
			testutil.Option{Text: "5"},
		),
		q2: testutil.SeedQuestion(t, store, "Capital of France?",
			testutil.Option{Text: "Berlin"},
			testutil.Option{Text: "Paris", Correct: true},
		),
	}
}

func (f *quizFixture) createQuiz(t *testing.T) *models.Quiz {
	t.Helper()
	quiz, err := f.svc.Create(context.Background(), f.creator.ID, models.CreateQuizRequest{
		Title: "General knowledge", TotalQuestions: 2, TotalScore: 6, Duration: 10,
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func TestQuizService_CreateValidates(t *testing.T) {
	f := newQuizFixture(t)
	_, err := f.svc.Create(context.Background(), f.creator.ID, models.CreateQuizRequest{TotalScore: -1})
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if _, ok := verr.Fields["title"]; !ok {
		t.Fatalf("expected title error, got %v", verr.Fields)
	}
}

func TestQuizService_MapQuestionsResolves(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)

	resolved, err := f.svc.MapQuestions(context.Background(), quiz.ID, models.MapQuestionsRequest{
		Questions: []models.QuestionMapping{
			{QuestionID: f.q2.ID, QuestionNumber: intPtr(2), Marks: intPtr(1)},
			{QuestionID: f.q1.ID, QuestionNumber: intPtr(1), Marks: intPtr(5)},
		},
	})
	if err != nil {
		t.Fatalf("map questions: %v", err)
	}

	if len(resolved.Questions) != 2 || resolved.Questions[0].ID != f.q1.ID || resolved.Questions[1].ID != f.q2.ID {
		t.Fatalf("unexpected resolved order %+v", resolved.Questions)
	}
	if resolved.Questions[0].Marks != 5 {
		t.Fatalf("expected marks from mapping, got %d", resolved.Questions[0].Marks)
	}
	raw, _ := json.Marshal(resolved)
	if strings.Contains(string(raw), "is_correct") {
		t.Fatalf("resolved quiz leaked answer key: %s", raw)
	}
}

func TestQuizService_MapQuestionsTwiceKeepsOnlySecond(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)
	ctx := context.Background()

	_, err := f.svc.MapQuestions(ctx, quiz.ID, models.MapQuestionsRequest{
		Questions: []models.QuestionMapping{
			{QuestionID: f.q1.ID, QuestionNumber: intPtr(1), Marks: intPtr(1)},
			{QuestionID: f.q2.ID, QuestionNumber: intPtr(2), Marks: intPtr(1)},
		},
	})
	if err != nil {
		t.Fatalf("first map: %v", err)
	}
	if _, err := f.svc.GetResolved(ctx, quiz.ID); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	resolved, err := f.svc.MapQuestions(ctx, quiz.ID, models.MapQuestionsRequest{
		Questions: []models.QuestionMapping{{QuestionID: f.q2.ID, Marks: intPtr(3)}},
	})
	if err != nil {
		t.Fatalf("second map: %v", err)
	}
	if len(resolved.Questions) != 1 || resolved.Questions[0].ID != f.q2.ID {
		t.Fatalf("expected only the second mapping, got %+v", resolved.Questions)
	}
	if f.cache.invalidations != 2 {
		t.Fatalf("expected cache invalidation on each map, got %d", f.cache.invalidations)
	}

	stored, err := f.store.Quizzes.GetByID(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("load quiz: %v", err)
	}
	if len(stored.Questions) != 1 {
		t.Fatalf("expected 1 stored mapping, got %d", len(stored.Questions))
	}
}

func TestQuizService_MapQuestionsUnknownQuiz(t *testing.T) {
	f := newQuizFixture(t)
	_, err := f.svc.MapQuestions(context.Background(), 404, models.MapQuestionsRequest{
		Questions: []models.QuestionMapping{{QuestionID: f.q1.ID, Marks: intPtr(1)}},
	})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T (%v)", err, err)
	}
}

func TestQuizService_MapQuestionsEmptyIsNotFound(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)
	_, err := f.svc.MapQuestions(context.Background(), quiz.ID, models.MapQuestionsRequest{})
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T (%v)", err, err)
	}
}

func TestQuizService_GetResolvedServesCache(t *testing.T) {
	f := newQuizFixture(t)
	f.cache.items[memoryCacheKey(77, "0")] = &models.ResolvedQuiz{ID: 77, Title: "cached"}

	got, err := f.svc.GetResolved(context.Background(), 77)
	if err != nil {
		t.Fatalf("get resolved: %v", err)
	}
	if got.Title != "cached" {
		t.Fatalf("expected cached quiz, got %+v", got)
	}
}

func TestQuizService_GetResolvedMissingQuiz(t *testing.T) {
	f := newQuizFixture(t)
	_, err := f.svc.GetResolved(context.Background(), 12345)
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T (%v)", err, err)
	}
}

func TestQuizService_ListRedactsForeignAnswerKeys(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)
	ctx := context.Background()
	if _, err := f.svc.MapQuestions(ctx, quiz.ID, models.MapQuestionsRequest{
		Questions: []models.QuestionMapping{{QuestionID: f.q1.ID, Marks: intPtr(1)}},
	}); err != nil {
		t.Fatalf("map questions: %v", err)
	}
	other := testutil.SeedUser(t, f.store, "other", false)

	tests := []struct {
		name        string
		principal   models.Principal
		wantAnswers bool
	}{
		{"creator", models.Principal{UserID: f.creator.ID}, true},
		{"admin", models.Principal{UserID: other.ID, IsAdmin: true}, true},
		{"other user", models.Principal{UserID: other.ID}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			quizzes, err := f.svc.ListAll(ctx, tc.principal)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(quizzes) != 1 || len(quizzes[0].Questions) != 1 {
				t.Fatalf("unexpected quizzes %+v", quizzes)
			}
			opt := quizzes[0].Questions[0].Question.Options[0]
			if (opt.IsCorrect != nil) != tc.wantAnswers {
				t.Fatalf("expected answers visible=%v, got is_correct=%v", tc.wantAnswers, opt.IsCorrect)
			}
		})
	}
}

func TestQuizService_ListByCreator(t *testing.T) {
	f := newQuizFixture(t)
	f.createQuiz(t)
	other := testutil.SeedUser(t, f.store, "other", false)
	testutil.SeedQuiz(t, f.store, other.ID, "Other's quiz")

	mine, err := f.svc.ListByCreator(context.Background(), models.Principal{UserID: f.creator.ID})
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].CreatorID != f.creator.ID {
		t.Fatalf("expected only own quiz, got %+v", mine)
	}
}

func TestQuizService_StaleWriteBackIsNotServed(t *testing.T) {
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)
	ctx := context.Background()

	if _, err := f.svc.MapQuestions(ctx, quiz.ID, models.MapQuestionsRequest{
		Questions: []models.QuestionMapping{
			{QuestionID: f.q1.ID, QuestionNumber: intPtr(1), Marks: intPtr(1)},
			{QuestionID: f.q2.ID, QuestionNumber: intPtr(2), Marks: intPtr(1)},
		},
	}); err != nil {
		t.Fatalf("first map: %v", err)
	}
	// Drop the entry the first map warmed so the next read goes to the database.
	f.cache.items = make(map[string]*models.ResolvedQuiz)

	// The remap commits after the reader loaded two questions but before it
	// writes them back.
	f.cache.beforeSet = func() {
		if _, err := f.svc.MapQuestions(ctx, quiz.ID, models.MapQuestionsRequest{
			Questions: []models.QuestionMapping{{QuestionID: f.q2.ID, Marks: intPtr(1)}},
		}); err != nil {
			t.Errorf("remap: %v", err)
		}
	}
	stale, err := f.svc.GetResolved(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get resolved: %v", err)
	}
	if len(stale.Questions) != 2 {
		t.Fatalf("expected the racing read to see the old mapping, got %d questions", len(stale.Questions))
	}

	got, err := f.svc.GetResolved(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("get resolved: %v", err)
	}
	if len(got.Questions) != 1 || got.Questions[0].ID != f.q2.ID {
		t.Fatalf("expected the remapped quiz, got %+v", got.Questions)
	}
}
