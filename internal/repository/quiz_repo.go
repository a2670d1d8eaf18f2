package repository

import (
	"context"
	"database/sql"
	"time"

	"quizhub-backend/internal/models"
)

type QuizRepo struct {
	db        DBTX
	questions *QuestionRepo
}

func NewQuizRepo(db DBTX, questions *QuestionRepo) *QuizRepo {
	return &QuizRepo{db: db, questions: questions}
}

const quizColumns = `id, creator_id, title, total_questions, total_score, duration, created_at`

func (r *QuizRepo) Create(ctx context.Context, q *models.Quiz) error {
	q.CreatedAt = time.Now().UTC()
	q.Questions = []models.QuizQuestion{}
	query := `INSERT INTO quizzes (creator_id, title, total_questions, total_score, duration, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		q.CreatorID, q.Title, q.TotalQuestions, q.TotalScore, q.Duration, toMillis(q.CreatedAt),
	).Scan(&q.ID)
}

func (r *QuizRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM quizzes WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// GetByID returns the quiz with its mappings and the nested catalog questions.
func (r *QuizRepo) GetByID(ctx context.Context, id int64) (*models.Quiz, error) {
	q := &models.Quiz{}
	var createdAt int64
	err := r.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id).Scan(
		&q.ID, &q.CreatorID, &q.Title, &q.TotalQuestions, &q.TotalScore, &q.Duration, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	q.CreatedAt = fromMillis(createdAt)

	if err := r.attachQuestions(ctx, []*models.Quiz{q}, `quiz_id = $1`, q.ID); err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuizRepo) List(ctx context.Context) ([]*models.Quiz, error) {
	return r.list(ctx, `TRUE`)
}

func (r *QuizRepo) ListByCreator(ctx context.Context, creatorID int64) ([]*models.Quiz, error) {
	return r.list(ctx, `creator_id = $1`, creatorID)
}

// ReplaceMappings deletes every mapping of quizID and inserts mappings in
// order. Callers run it inside a transaction.
func (r *QuizRepo) ReplaceMappings(ctx context.Context, quizID int64, mappings []models.QuestionMapping) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM quiz_questions WHERE quiz_id = $1`, quizID); err != nil {
		return err
	}

	for _, m := range mappings {
		marks := 0
		if m.Marks != nil {
			marks = *m.Marks
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO quiz_questions (quiz_id, question_id, question_number, marks) VALUES ($1, $2, $3, $4)`,
			quizID, m.QuestionID, m.QuestionNumber, marks,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// list loads the quizzes matching where, a condition on the quizzes table.
func (r *QuizRepo) list(ctx context.Context, where string, args ...any) ([]*models.Quiz, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}

	quizzes := []*models.Quiz{}
	for rows.Next() {
		q := &models.Quiz{}
		var createdAt int64
		if err := rows.Scan(&q.ID, &q.CreatorID, &q.Title, &q.TotalQuestions, &q.TotalScore, &q.Duration, &createdAt); err != nil {
			rows.Close()
			return nil, err
		}
		q.CreatedAt = fromMillis(createdAt)
		quizzes = append(quizzes, q)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	err = r.attachQuestions(ctx, quizzes, `quiz_id IN (SELECT id FROM quizzes WHERE `+where+`)`, args...)
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

// attachQuestions fills Questions for every quiz. filter selects the mappings
// by parent key, so the mapping query binds the same few arguments however
// many quizzes are loaded; the catalog lookup is chunked by GetByIDs.
func (r *QuizRepo) attachQuestions(ctx context.Context, quizzes []*models.Quiz, filter string, args ...any) error {
	if len(quizzes) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Quiz, len(quizzes))
	for _, q := range quizzes {
		q.Questions = []models.QuizQuestion{}
		byID[q.ID] = q
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, quiz_id, question_id, question_number, marks FROM quiz_questions
		 WHERE `+filter+` ORDER BY quiz_id, id`, args...)
	if err != nil {
		return err
	}

	var questionIDs []int64
	for rows.Next() {
		var m models.QuizQuestion
		var number sql.NullInt64
		if err := rows.Scan(&m.ID, &m.QuizID, &m.QuestionID, &number, &m.Marks); err != nil {
			rows.Close()
			return err
		}
		if number.Valid {
			n := int(number.Int64)
			m.QuestionNumber = &n
		}
		// A quiz created after the parent query ran has no entry.
		quiz, ok := byID[m.QuizID]
		if !ok {
			continue
		}
		quiz.Questions = append(quiz.Questions, m)
		questionIDs = append(questionIDs, m.QuestionID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	catalog, err := r.questions.GetByIDs(ctx, questionIDs)
	if err != nil {
		return err
	}

	for _, q := range quizzes {
		for i := range q.Questions {
			if question, ok := catalog[q.Questions[i].QuestionID]; ok {
				copied := *question
				q.Questions[i].Question = &copied
			}
		}
	}
	return nil
}
