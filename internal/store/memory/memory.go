// Package memory implements store.Store with process-wide in-memory
// collections. It is the default backend and mirrors the semantics the
// service contract was written against: no persistence, scans instead of
// indexes, and implicit quota reset at day rollover.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

const janitorInterval = 1 * time.Hour

// Store owns every collection behind one mutex. Each repository method runs
// to completion under the lock, so a single instance behaves like the
// one-request-at-a-time model the semantics assume even when the HTTP server
// runs handlers concurrently.
type Store struct {
	mu sync.Mutex

	users         []*models.User
	follows       []*models.Follow
	blocks        []*models.Block
	posts         []*models.Post
	postCounts    map[string]int
	conversations []*conversationRecord
	sessions      map[string]*models.Session
	verifTokens   map[string]*models.EmailVerificationToken
	notifications []*models.Notification

	now func() time.Time
}

// conversationRecord keeps a conversation, its two participant rows and its
// messages together so pair lookup and tombstone deletion stay simple.
type conversationRecord struct {
	conv         *models.Conversation
	participants []*models.Participant
	messages     []*models.Message
}

func New() *Store {
	return &Store{
		postCounts:  make(map[string]int),
		sessions:    make(map[string]*models.Session),
		verifTokens: make(map[string]*models.EmailVerificationToken),
		now:         time.Now,
	}
}

func (s *Store) Users() store.UserRepository                   { return &userRepo{s} }
func (s *Store) Follows() store.FollowRepository               { return &followRepo{s} }
func (s *Store) Blocks() store.BlockRepository                 { return &blockRepo{s} }
func (s *Store) Posts() store.PostRepository                   { return &postRepo{s} }
func (s *Store) Conversations() store.ConversationRepository   { return &conversationRepo{s} }
func (s *Store) Messages() store.MessageRepository             { return &messageRepo{s} }
func (s *Store) Sessions() store.SessionRepository             { return &sessionRepo{s} }
func (s *Store) VerificationTokens() store.VerificationTokenRepository {
	return &verificationTokenRepo{s}
}
func (s *Store) Notifications() store.NotificationRepository { return &notificationRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() {}

// Janitor periodically evicts expired sessions and verification tokens and
// drops stale daily post counters. Counter keys only ever grow otherwise.
func (s *Store) Janitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for hash, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, hash)
		}
	}
	for hash, tok := range s.verifTokens {
		if now.After(tok.ExpiresAt) {
			delete(s.verifTokens, hash)
		}
	}
	// Keep today's and yesterday's counters; anything older can never be
	// read again.
	today := dayKey(now)
	yesterday := dayKey(now.AddDate(0, 0, -1))
	for key := range s.postCounts {
		if !strings.HasSuffix(key, today) && !strings.HasSuffix(key, yesterday) {
			delete(s.postCounts, key)
		}
	}
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
