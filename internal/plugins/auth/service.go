package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/argon2"

	"github.com/curiocms/curio/internal/apperror"
)

// sessionKeyPrefix namespaces session keys in Redis.
const sessionKeyPrefix = "session:"

// sessionTokenLength is the number of random bytes in a session token.
const sessionTokenLength = 32

// Argon2id parameters. Chosen per the RFC 9106 low-memory recommendation:
// enough to make offline cracking expensive without starving a small VPS.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // 64 MB
	argonThreads = 2
	argonKeyLen  = 32
	argonSaltLen = 16
)

// AuthService handles authentication business logic: credential verification,
// session creation/validation/revocation.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (token string, session *Session, err error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*Session, error)
}

// authService implements AuthService with Redis-backed sessions.
type authService struct {
	users      UserRepository
	redis      *redis.Client
	sessionTTL time.Duration
}

// NewAuthService creates a new auth service.
func NewAuthService(users UserRepository, rdb *redis.Client, sessionTTL time.Duration) AuthService {
	return &authService{
		users:      users,
		redis:      rdb,
		sessionTTL: sessionTTL,
	}
}

// Login verifies the credentials and creates a new session on success.
// Returns the same generic error for unknown email and wrong password so
// the endpoint cannot be used to enumerate accounts.
func (s *authService) Login(ctx context.Context, input LoginInput) (string, *Session, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		return "", nil, apperror.NewUnauthorized("invalid email or password")
	}

	ok, err := VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return "", nil, apperror.NewInternal("verifying password", err)
	}
	if !ok {
		return "", nil, apperror.NewUnauthorized("invalid email or password")
	}

	token, err := generateSessionToken()
	if err != nil {
		return "", nil, apperror.NewInternal("generating session token", err)
	}

	session := &Session{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.DisplayName,
		IsAdmin:   user.IsAdmin,
		CreatedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return "", nil, apperror.NewInternal("encoding session", err)
	}

	if err := s.redis.Set(ctx, sessionKeyPrefix+token, payload, s.sessionTTL).Err(); err != nil {
		return "", nil, apperror.NewInternal("storing session", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// Non-fatal: the login itself succeeded.
		slog.Warn("updating last login failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return token, session, nil
}

// Logout revokes the session. Revoking an unknown token is not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.redis.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return apperror.NewInternal("deleting session", err)
	}
	return nil
}

// ValidateSession looks up the session for a token and refreshes its TTL
// (sliding expiration).
func (s *authService) ValidateSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, apperror.NewUnauthorized("no session")
	}

	payload, err := s.redis.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.NewUnauthorized("session expired")
	}
	if err != nil {
		return nil, apperror.NewInternal("loading session", err)
	}

	var session Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, apperror.NewInternal("decoding session", err)
	}

	if err := s.redis.Expire(ctx, sessionKeyPrefix+token, s.sessionTTL).Err(); err != nil {
		slog.Warn("refreshing session TTL failed", slog.Any("error", err))
	}

	return &session, nil
}

// generateSessionToken creates a cryptographically random hex token.
func generateSessionToken() (string, error) {
	b := make([]byte, sessionTokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// --- Password hashing ---

// HashPassword derives an argon2id hash in the standard
// $argon2id$v=19$m=...,t=...,p=...$salt$hash encoding.
func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword checks a plaintext password against a stored argon2id hash.
// Uses the parameters embedded in the hash so stored hashes survive parameter
// changes.
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, fmt.Errorf("malformed password hash")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return false, fmt.Errorf("parsing hash version: %w", err)
	}
	if version != argon2.Version {
		return false, fmt.Errorf("unsupported argon2 version %d", version)
	}

	var memory, timeCost uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &timeCost, &threads); err != nil {
		return false, fmt.Errorf("parsing hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("decoding salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("decoding hash: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
