package repository

import (
	"context"
	"database/sql"
	"time"

	"quizhub-backend/internal/models"
)

type AttemptRepo struct {
	db DBTX
}

func NewAttemptRepo(db DBTX) *AttemptRepo {
	return &AttemptRepo{db: db}
}

const attemptColumns = `id, quiz_id, user_id, start_time, end_time, score, status`

func (r *AttemptRepo) Create(ctx context.Context, a *models.Attempt) error {
	a.Status = models.AttemptInProgress
	a.Responses = []models.Response{}
	query := `INSERT INTO quiz_attempts (quiz_id, user_id, start_time, status)
		VALUES ($1, $2, $3, $4) RETURNING id`

	return r.db.QueryRowContext(ctx, query, a.QuizID, a.UserID, toMillis(a.StartTime), a.Status).Scan(&a.ID)
}

// LatestInProgress returns the most recently started in_progress attempt of
// userID at quizID. It returns sql.ErrNoRows when there is none.
func (r *AttemptRepo) LatestInProgress(ctx context.Context, quizID, userID int64) (*models.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts
		WHERE quiz_id = $1 AND user_id = $2 AND status = $3
		ORDER BY start_time DESC, id DESC LIMIT 1`
	return scanAttempt(r.db.QueryRowContext(ctx, query, quizID, userID, models.AttemptInProgress))
}

// Latest returns the most recently started attempt regardless of status.
func (r *AttemptRepo) Latest(ctx context.Context, quizID, userID int64) (*models.Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts
		WHERE quiz_id = $1 AND user_id = $2
		ORDER BY start_time DESC, id DESC LIMIT 1`
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, quizID, userID))
	if err != nil {
		return nil, err
	}
	if err := r.attachResponses(ctx, []*models.Attempt{a}, `attempt_id = $1`, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AttemptRepo) CreateResponse(ctx context.Context, resp *models.Response) error {
	query := `INSERT INTO quiz_responses (attempt_id, question_id, selected_option_id, marks_obtained)
		VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		resp.AttemptID, resp.QuestionID, resp.SelectedOptionID, resp.MarksObtained,
	).Scan(&resp.ID)
}

// Finalize completes an attempt that is still in progress. It reports false
// when the attempt was already finalized by somebody else.
func (r *AttemptRepo) Finalize(ctx context.Context, attemptID int64, endTime time.Time, score float64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quiz_attempts SET status = $1, end_time = $2, score = $3
		 WHERE id = $4 AND status = $5`,
		models.AttemptCompleted, toMillis(endTime), score, attemptID, models.AttemptInProgress,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListByQuiz returns every attempt at quizID, any status, with responses.
func (r *AttemptRepo) ListByQuiz(ctx context.Context, quizID int64) ([]*models.Attempt, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+attemptColumns+` FROM quiz_attempts
		WHERE quiz_id = $1 ORDER BY start_time, id`, quizID)
	if err != nil {
		return nil, err
	}

	attempts := []*models.Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	err = r.attachResponses(ctx, attempts,
		`attempt_id IN (SELECT id FROM quiz_attempts WHERE quiz_id = $1)`, quizID)
	if err != nil {
		return nil, err
	}
	return attempts, nil
}

// CompletedScores aggregates one row per attempt with a non-null end_time.
func (r *AttemptRepo) CompletedScores(ctx context.Context, quizID int64) ([]models.Score, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.user_id, COALESCE(a.score, 0), a.end_time,
		       COALESCE(SUM(CASE WHEN r.marks_obtained > 0 THEN 1 ELSE 0 END), 0),
		       COUNT(r.id)
		FROM quiz_attempts a
		LEFT JOIN quiz_responses r ON r.attempt_id = a.id
		WHERE a.quiz_id = $1 AND a.end_time IS NOT NULL
		GROUP BY a.id, a.user_id, a.score, a.end_time
		ORDER BY a.end_time, a.id`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := []models.Score{}
	for rows.Next() {
		var s models.Score
		var endTime int64
		if err := rows.Scan(&s.UserID, &s.Score, &endTime, &s.CorrectAnswers, &s.TotalQuestions); err != nil {
			return nil, err
		}
		s.CompletionTime = fromMillis(endTime)
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// attachResponses loads the responses matching filter, a WHERE condition
// selecting by parent key, and hangs them on attempts. The bind count stays
// constant however many attempts there are.
func (r *AttemptRepo) attachResponses(ctx context.Context, attempts []*models.Attempt, filter string, args ...any) error {
	if len(attempts) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Attempt, len(attempts))
	for _, a := range attempts {
		a.Responses = []models.Response{}
		byID[a.ID] = a
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, attempt_id, question_id, selected_option_id, marks_obtained FROM quiz_responses
		 WHERE `+filter+` ORDER BY attempt_id, id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var resp models.Response
		if err := rows.Scan(&resp.ID, &resp.AttemptID, &resp.QuestionID, &resp.SelectedOptionID, &resp.MarksObtained); err != nil {
			return err
		}
		if a, ok := byID[resp.AttemptID]; ok {
			a.Responses = append(a.Responses, resp)
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (*models.Attempt, error) {
	a := &models.Attempt{}
	var startTime int64
	var endTime sql.NullInt64
	var score sql.NullFloat64
	if err := row.Scan(&a.ID, &a.QuizID, &a.UserID, &startTime, &endTime, &score, &a.Status); err != nil {
		return nil, err
	}
	a.StartTime = fromMillis(startTime)
	a.EndTime = fromNullMillis(endTime)
	if score.Valid {
		s := score.Float64
		a.Score = &s
	}
	a.Responses = []models.Response{}
	return a, nil
}
