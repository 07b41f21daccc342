package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

type sessionRepo struct {
	s *Store
}

func (r *sessionRepo) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess := &models.Session{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: r.s.now(),
	}
	r.s.sessions[tokenHash] = sess

	c := *sess
	return &c, nil
}

func (r *sessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	sess, ok := r.s.sessions[tokenHash]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *sess
	return &c, nil
}

func (r *sessionRepo) Delete(ctx context.Context, tokenHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, tokenHash)
	return nil
}

func (r *sessionRepo) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for hash, sess := range r.s.sessions {
		if sess.UserID == userID {
			delete(r.s.sessions, hash)
		}
	}
	return nil
}

func (r *sessionRepo) DeleteExpired(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	removed := 0
	for hash, sess := range r.s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(r.s.sessions, hash)
			removed++
		}
	}
	return removed, nil
}

type verificationTokenRepo struct {
	s *Store
}

func (r *verificationTokenRepo) Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.verifTokens[tokenHash] = &models.EmailVerificationToken{
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: r.s.now(),
	}
	return nil
}

func (r *verificationTokenRepo) Get(ctx context.Context, tokenHash string) (*models.EmailVerificationToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	tok, ok := r.s.verifTokens[tokenHash]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *tok
	return &c, nil
}

func (r *verificationTokenRepo) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for hash, tok := range r.s.verifTokens {
		if tok.UserID == userID {
			delete(r.s.verifTokens, hash)
		}
	}
	return nil
}
