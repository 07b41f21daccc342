package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

const (
	bcryptCost      = 12
	sessionDuration = 7 * 24 * time.Hour

	sessionKeyPrefix = "session:"
	// Cached sessions are re-validated against the store when the cache entry
	// expires, so the TTL stays short relative to the session itself.
	sessionCacheTTL = 15 * time.Minute
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrPasswordTooLong    = errors.New("password too long")
)

// AuthService issues and validates opaque session tokens. Only the SHA-256
// hash of a token is ever stored; the cache (optional) maps hashes to user
// IDs for fast lookups.
type AuthService struct {
	store store.Store
	cache *redis.Client // nil disables caching
}

func NewAuthService(st store.Store, cache *redis.Client) *AuthService {
	return &AuthService{store: st, cache: cache}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

func (s *AuthService) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *AuthService) GenerateSessionToken() (token string, hash string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("generating random bytes: %w", err)
	}

	token = hex.EncodeToString(bytes)
	return token, s.hashToken(token), nil
}

func (s *AuthService) hashToken(token string) string {
	hashBytes := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hashBytes[:])
}

func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID) (token string, err error) {
	token, tokenHash, err := s.GenerateSessionToken()
	if err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(sessionDuration)
	if _, err := s.store.Sessions().Create(ctx, userID, tokenHash, expiresAt); err != nil {
		return "", fmt.Errorf("creating session: %w", err)
	}

	// Cache failures are not fatal; the store remains authoritative.
	if s.cache != nil {
		_ = s.cache.Set(ctx, sessionKeyPrefix+tokenHash, userID.String(), sessionCacheTTL).Err()
	}

	return token, nil
}

func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	tokenHash := s.hashToken(token)

	if s.cache != nil {
		userIDStr, err := s.cache.Get(ctx, sessionKeyPrefix+tokenHash).Result()
		if err == nil {
			userID, err := uuid.Parse(userIDStr)
			if err == nil {
				return s.getUserByID(ctx, userID)
			}
		}
	}

	session, err := s.store.Sessions().GetByTokenHash(ctx, tokenHash)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.store.Sessions().Delete(ctx, tokenHash)
		return nil, ErrSessionExpired
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, sessionKeyPrefix+tokenHash, session.UserID.String(), sessionCacheTTL).Err()
	}

	return s.getUserByID(ctx, session.UserID)
}

func (s *AuthService) DeleteSession(ctx context.Context, token string) error {
	tokenHash := s.hashToken(token)

	if s.cache != nil {
		_ = s.cache.Del(ctx, sessionKeyPrefix+tokenHash).Err()
	}

	err := s.store.Sessions().Delete(ctx, tokenHash)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *AuthService) DeleteAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Sessions().DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("deleting user sessions: %w", err)
	}
	return nil
}

func (s *AuthService) getUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}
