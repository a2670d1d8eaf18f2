package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/middleware"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/repository"
)

type AuthService struct {
	userRepo *repository.UserRepo
	jwt      *middleware.JWTAuth
	tokenTTL time.Duration
	log      *logger.Logger
	hashCost int
}

func NewAuthService(userRepo *repository.UserRepo, jwt *middleware.JWTAuth, tokenTTL time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwt:      jwt,
		tokenTTL: tokenTTL,
		log:      log,
		hashCost: 12,
	}
}

// Login checks the credentials and issues a bearer access token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthToken, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	principal, err := s.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateAccessToken(*principal, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &models.AuthToken{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresIn:   int(s.tokenTTL.Seconds()),
	}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Principal, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &UnauthorizedError{Message: "Incorrect username or password"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, &UnauthorizedError{Message: "Incorrect username or password"}
	}

	return &models.Principal{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}

func (s *AuthService) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	// Check uniqueness
	_, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err == nil {
		return nil, &ConflictError{Message: "Username already registered"}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsAdmin:      req.IsAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// EnsureAdmin creates the bootstrap admin account unless the username is taken.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	_, err := s.CreateUser(ctx, models.CreateUserRequest{Username: username, Password: password, IsAdmin: true})
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info("bootstrap admin created", "username", username)
	return nil
}
