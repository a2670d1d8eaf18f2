package repository

import (
	"context"
	"time"

	"quizhub-backend/internal/models"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now().UTC()
	query := `INSERT INTO users (username, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, toMillis(user.CreatedAt),
	).Scan(&user.ID)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, is_admin, created_at
		FROM users WHERE username = $1`
	return r.scanOne(ctx, query, username)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, is_admin, created_at
		FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, email, password_hash, is_admin, created_at
		FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u := &models.User{}
		var createdAt int64
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &createdAt); err != nil {
			return nil, err
		}
		u.CreatedAt = fromMillis(createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	u := &models.User{}
	var createdAt int64
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}
