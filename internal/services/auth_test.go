package services

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quizhub-backend/internal/logger"
	"quizhub-backend/internal/middleware"
	"quizhub-backend/internal/models"
	"quizhub-backend/internal/testutil"
)

func newTestAuthService(t *testing.T) (*AuthService, *middleware.JWTAuth) {
	t.Helper()
	store := testutil.NewStore(t)
	jwt := middleware.NewJWTAuth("test-secret")
	svc := NewAuthService(store.Users, jwt, 30*time.Minute, logger.Nop())
	svc.hashCost = bcrypt.MinCost
	return svc, jwt
}

func TestAuthService_CreateUserAndLogin(t *testing.T) {
	svc, jwt := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, models.CreateUserRequest{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == 0 || user.PasswordHash == "password123" {
		t.Fatalf("unexpected created user %+v", user)
	}

	token, err := svc.Login(ctx, models.LoginRequest{Username: "alice", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token.TokenType != "bearer" || token.ExpiresIn != 1800 {
		t.Fatalf("unexpected token %+v", token)
	}

	p, err := jwt.ParseAccessToken(token.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if p.UserID != user.ID || p.Username != "alice" || p.IsAdmin {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	if _, err := svc.CreateUser(ctx, models.CreateUserRequest{Username: "alice", Password: "password123"}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	tests := []struct {
		name string
		req  models.LoginRequest
	}{
		{"wrong password", models.LoginRequest{Username: "alice", Password: "nope-nope"}},
		{"unknown user", models.LoginRequest{Username: "bob", Password: "password123"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.req)
			if _, ok := err.(*UnauthorizedError); !ok {
				t.Fatalf("expected *UnauthorizedError, got %T (%v)", err, err)
			}
		})
	}

	_, err := svc.Login(ctx, models.LoginRequest{Username: "alice"})
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected *ValidationError for empty password, got %T", err)
	}
}

func TestAuthService_CreateUserConflict(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	req := models.CreateUserRequest{Username: "alice", Password: "password123"}

	if _, err := svc.CreateUser(ctx, req); err != nil {
		t.Fatalf("create user: %v", err)
	}
	_, err := svc.CreateUser(ctx, req)
	if _, ok := err.(*ConflictError); !ok {
		t.Fatalf("expected *ConflictError, got %T (%v)", err, err)
	}
}

func TestAuthService_EnsureAdminIsIdempotent(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.EnsureAdmin(ctx, "root", "supersecret"); err != nil {
			t.Fatalf("ensure admin (run %d): %v", i, err)
		}
	}
	if err := svc.EnsureAdmin(ctx, "", ""); err != nil {
		t.Fatalf("expected no-op without credentials, got %v", err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || !users[0].IsAdmin || users[0].Username != "root" {
		t.Fatalf("expected a single admin, got %+v", users)
	}
}
