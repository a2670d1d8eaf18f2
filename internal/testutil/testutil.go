// Package testutil opens throwaway SQLite databases with the production schema
// and seeds fixtures for package tests.
package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"quizhub-backend/internal/database"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
)

func NewDB(tb testing.TB) *sql.DB {
	tb.Helper()
	db, err := database.OpenSQLite(filepath.Join(tb.TempDir(), "quizhub_test.db"))
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(db, database.DriverSQLite); err != nil {
		tb.Fatalf("run migrations: %v", err)
	}
	return db
}

func NewStore(tb testing.TB) *repository.Store {
	tb.Helper()
	return repository.NewStore(NewDB(tb))
}

type Option struct {
	Text    string
	Correct bool
}

func SeedUser(tb testing.TB, store *repository.Store, username string, isAdmin bool) *models.User {
	tb.Helper()
	u := &models.User{Username: username, PasswordHash: "x", IsAdmin: isAdmin}
	if err := store.Users.Create(context.Background(), u); err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedQuestion(tb testing.TB, store *repository.Store, text string, options ...Option) *models.Question {
	tb.Helper()
	q := &models.Question{Text: text}
	for _, o := range options {
		correct := o.Correct
		q.Options = append(q.Options, models.QuestionOption{Text: o.Text, IsCorrect: &correct})
	}
	if err := store.Questions.Create(context.Background(), q); err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedQuiz(tb testing.TB, store *repository.Store, creatorID int64, title string) *models.Quiz {
	tb.Helper()
	q := &models.Quiz{CreatorID: creatorID, Title: title, TotalQuestions: 2, TotalScore: 10, Duration: 15}
	if err := store.Quizzes.Create(context.Background(), q); err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

// CorrectOption returns the id of the first option flagged correct.
func CorrectOption(tb testing.TB, q *models.Question) int64 {
	tb.Helper()
	for _, o := range q.Options {
		if o.IsCorrect != nil && *o.IsCorrect {
			return o.ID
		}
	}
	tb.Fatalf("question %d has no correct option", q.ID)
	return 0
}

// WrongOption returns the id of the first option not flagged correct.
func WrongOption(tb testing.TB, q *models.Question) int64 {
	tb.Helper()
	for _, o := range q.Options {
		if o.IsCorrect == nil || !*o.IsCorrect {
			return o.ID
		}
	}
	tb.Fatalf("question %d has no wrong option", q.ID)
	return 0
}

// Exec runs raw SQL against the database behind a test, e.g. to corrupt rows.
func Exec(tb testing.TB, db *sql.DB, query string, args ...any) {
	tb.Helper()
	if _, err := db.Exec(query, args...); err != nil {
		tb.Fatalf("exec %q: %v", query, err)
	}
}
