package repository

import (
	"context"
	"database/sql"

	"quizhub-backend/internal/models"
)

// QuestionRepo reads the question catalog. Create exists for seeding only.
type QuestionRepo struct {
	db DBTX
}

func NewQuestionRepo(db DBTX) *QuestionRepo {
	return &QuestionRepo{db: db}
}

func (r *QuestionRepo) Create(ctx context.Context, q *models.Question) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO questions (question_text) VALUES ($1) RETURNING id`, q.Text,
	).Scan(&q.ID)
	if err != nil {
		return err
	}

	for i := range q.Options {
		opt := &q.Options[i]
		opt.QuestionID = q.ID
		correct := opt.IsCorrect != nil && *opt.IsCorrect
		err := r.db.QueryRowContext(ctx,
			`INSERT INTO question_options (question_id, option_text, is_correct) VALUES ($1, $2, $3) RETURNING id`,
			q.ID, opt.Text, correct,
		).Scan(&opt.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *QuestionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n)
	return n, err
}

func (r *QuestionRepo) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	found, err := r.GetByIDs(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	q, ok := found[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return q, nil
}

// GetByIDs loads questions and their options with two queries per chunk of
// ids. Missing ids are absent from the result.
func (r *QuestionRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Question, error) {
	out := make(map[int64]*models.Question)
	for _, chunk := range chunkIDs(uniqueIDs(ids), maxInParams) {
		if err := r.getChunk(ctx, chunk, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *QuestionRepo) getChunk(ctx context.Context, ids []int64, out map[int64]*models.Question) error {
	in, args := inClause(1, ids)
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question_text FROM questions WHERE id IN (`+in+`)`, args...)
	if err != nil {
		return err
	}
	matched := 0
	for rows.Next() {
		q := &models.Question{Options: []models.QuestionOption{}}
		if err := rows.Scan(&q.ID, &q.Text); err != nil {
			rows.Close()
			return err
		}
		out[q.ID] = q
		matched++
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	if matched == 0 {
		return nil
	}

	// Options keep insertion order.
	rows, err = r.db.QueryContext(ctx,
		`SELECT id, question_id, option_text, is_correct FROM question_options
		 WHERE question_id IN (`+in+`) ORDER BY question_id, id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.QuestionOption
		var correct bool
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Text, &correct); err != nil {
			return err
		}
		opt.IsCorrect = &correct
		if q, ok := out[opt.QuestionID]; ok {
			q.Options = append(q.Options, opt)
		}
	}
	return rows.Err()
}

// CorrectOptionIDs returns, per question id, the set of options flagged correct.
// Questions with zero correct options are absent.
func (r *QuestionRepo) CorrectOptionIDs(ctx context.Context, questionIDs []int64) (map[int64]map[int64]bool, error) {
	out := make(map[int64]map[int64]bool)
	for _, chunk := range chunkIDs(uniqueIDs(questionIDs), maxInParams) {
		if err := r.correctChunk(ctx, chunk, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *QuestionRepo) correctChunk(ctx context.Context, questionIDs []int64, out map[int64]map[int64]bool) error {
	in, args := inClause(1, questionIDs)
	rows, err := r.db.QueryContext(ctx,
		`SELECT question_id, id FROM question_options
		 WHERE is_correct = TRUE AND question_id IN (`+in+`)`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var questionID, optionID int64
		if err := rows.Scan(&questionID, &optionID); err != nil {
			return err
		}
		if out[questionID] == nil {
			out[questionID] = make(map[int64]bool)
		}
		out[questionID][optionID] = true
	}
	return rows.Err()
}

// List returns the whole catalog ordered by id, options in insertion order.
func (r *QuestionRepo) List(ctx context.Context) ([]*models.Question, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, question_text FROM questions ORDER BY id`)
	if err != nil {
		return nil, err
	}

	questions := []*models.Question{}
	byID := make(map[int64]*models.Question)
	for rows.Next() {
		q := &models.Question{Options: []models.QuestionOption{}}
		if err := rows.Scan(&q.ID, &q.Text); err != nil {
			rows.Close()
			return nil, err
		}
		questions = append(questions, q)
		byID[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	rows, err = r.db.QueryContext(ctx,
		`SELECT id, question_id, option_text, is_correct FROM question_options ORDER BY question_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.QuestionOption
		var correct bool
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Text, &correct); err != nil {
			return nil, err
		}
		opt.IsCorrect = &correct
		if q, ok := byID[opt.QuestionID]; ok {
			q.Options = append(q.Options, opt)
		}
	}
	return questions, rows.Err()
}
