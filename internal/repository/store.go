package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"quizhub-backend/internal/database"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var ErrNestedTx = errors.New("transaction already in progress")

// Store bundles the repositories bound to one database handle.
type Store struct {
	db *sql.DB

	Users     *UserRepo
	Questions *QuestionRepo
	Quizzes   *QuizRepo
	Attempts  *AttemptRepo
}

func NewStore(db *sql.DB) *Store {
	s := newStore(db)
	s.db = db
	return s
}

func newStore(q DBTX) *Store {
	questions := NewQuestionRepo(q)
	return &Store{
		Users:     NewUserRepo(q),
		Questions: questions,
		Quizzes:   NewQuizRepo(q, questions),
		Attempts:  NewAttemptRepo(q),
	}
}

// WithTx runs fn with repositories bound to a single transaction. The
// transaction is rolled back on every error path.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return ErrNestedTx
	}
	return database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(newStore(tx))
	})
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func fromNullMillis(ms sql.NullInt64) *time.Time {
	if !ms.Valid {
		return nil
	}
	t := fromMillis(ms.Int64)
	return &t
}

// maxInParams bounds the ids bound into one IN list, well below SQLite's
// 32766 and PostgreSQL's 65535 bind parameter limits.
const maxInParams = 500

// chunkIDs splits ids into consecutive slices of at most size elements.
func chunkIDs(ids []int64, size int) [][]int64 {
	var chunks [][]int64
	for len(ids) > size {
		chunks = append(chunks, ids[:size:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}

// inClause renders "$start, $start+1, ..." for ids and returns the matching args.
func inClause(start int, ids []int64) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(strconv.Itoa(start + i))
		args = append(args, id)
	}
	return b.String(), args
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
