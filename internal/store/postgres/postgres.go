// Package postgres implements store.Store on PostgreSQL via pgx. It is the
// persistent backend selected with STORE_BACKEND=postgres; schema lives in
// the migrations directory.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamemates/server/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Users() store.UserRepository                 { return &userRepo{s.pool} }
func (s *Store) Follows() store.FollowRepository             { return &followRepo{s.pool} }
func (s *Store) Blocks() store.BlockRepository               { return &blockRepo{s.pool} }
func (s *Store) Posts() store.PostRepository                 { return &postRepo{s.pool} }
func (s *Store) Conversations() store.ConversationRepository { return &conversationRepo{s.pool} }
func (s *Store) Messages() store.MessageRepository           { return &messageRepo{s.pool} }
func (s *Store) Sessions() store.SessionRepository           { return &sessionRepo{s.pool} }
func (s *Store) VerificationTokens() store.VerificationTokenRepository {
	return &verificationTokenRepo{s.pool}
}
func (s *Store) Notifications() store.NotificationRepository { return &notificationRepo{s.pool} }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() { s.pool.Close() }
