package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/curiocms/curio/internal/apperror"
)

type mockUserRepository struct {
	findByEmailFn   func(ctx context.Context, email string) (*User, error)
	lastLoginUpdate string
}

func (m *mockUserRepository) Create(ctx context.Context, user *User) error {
	panic("not used")
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	panic("not used")
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return m.findByEmailFn(ctx, email)
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id string) error {
	m.lastLoginUpdate = id
	return nil
}

func newTestAuthService(t *testing.T, users UserRepository, ttl time.Duration) (AuthService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewAuthService(users, rdb, ttl), mr
}

func testUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &User{
		ID:           "u1",
		Email:        "ed@example.com",
		DisplayName:  "Ed",
		PasswordHash: hash,
		IsAdmin:      true,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword("correct horse", hash)
	if err != nil || !ok {
		t.Errorf("VerifyPassword(correct) = %v, %v", ok, err)
	}

	ok, err = VerifyPassword("wrong", hash)
	if err != nil || ok {
		t.Errorf("VerifyPassword(wrong) = %v, %v", ok, err)
	}

	if _, err := VerifyPassword("x", "not-a-hash"); err == nil {
		t.Error("malformed hash should error")
	}
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "secret123")
	repo := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			if email != "ed@example.com" {
				t.Errorf("email = %q", email)
			}
			return user, nil
		},
	}
	svc, _ := newTestAuthService(t, repo, time.Hour)

	token, session, err := svc.Login(context.Background(), LoginInput{
		Email:    " Ed@Example.com ",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if session.UserID != "u1" || session.Name != "Ed" || !session.IsAdmin {
		t.Errorf("session = %+v", session)
	}
	if repo.lastLoginUpdate != "u1" {
		t.Error("last login was not recorded")
	}

	got, err := svc.ValidateSession(context.Background(), token)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if got.UserID != "u1" {
		t.Errorf("validated session = %+v", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	user := testUser(t, "secret123")
	repo := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}
	svc, _ := newTestAuthService(t, repo, time.Hour)

	_, _, err := svc.Login(context.Background(), LoginInput{Email: "ed@example.com", Password: "nope"})
	assertUnauthorized(t, err)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return nil, apperror.NewNotFound("user not found")
		},
	}
	svc, _ := newTestAuthService(t, repo, time.Hour)

	_, _, err := svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "x"})
	assertUnauthorized(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	user := testUser(t, "secret123")
	repo := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}
	svc, _ := newTestAuthService(t, repo, time.Hour)

	token, _, err := svc.Login(context.Background(), LoginInput{Email: "ed@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = svc.ValidateSession(context.Background(), token)
	assertUnauthorized(t, err)

	// Revoking again is a no-op, not an error.
	if err := svc.Logout(context.Background(), token); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}

func TestValidateSessionExpiry(t *testing.T) {
	user := testUser(t, "secret123")
	repo := &mockUserRepository{
		findByEmailFn: func(ctx context.Context, email string) (*User, error) {
			return user, nil
		},
	}
	svc, mr := newTestAuthService(t, repo, time.Minute)

	token, _, err := svc.Login(context.Background(), LoginInput{Email: "ed@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	_, err = svc.ValidateSession(context.Background(), token)
	assertUnauthorized(t, err)
}

func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	appErr, ok := err.(*apperror.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != 401 {
		t.Fatalf("expected 401, got %d", appErr.Code)
	}
}
