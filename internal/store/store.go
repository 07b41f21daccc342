// Package store defines the repository interfaces every backend implements.
// Collections are constructed once at process start and injected into the
// service layer; callers borrow entities for the duration of one request.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("store: not found")

// Store aggregates the entity repositories backed by one shared data source.
type Store interface {
	Users() UserRepository
	Follows() FollowRepository
	Blocks() BlockRepository
	Posts() PostRepository
	Conversations() ConversationRepository
	Messages() MessageRepository
	Sessions() SessionRepository
	VerificationTokens() VerificationTokenRepository
	Notifications() NotificationRepository

	Ping(ctx context.Context) error
	Close()
}

type UserRepository interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, params models.UpdateUserParams) (*models.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	TouchLastSeen(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, limit int) ([]*models.User, error)
}

type FollowRepository interface {
	Get(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
	Create(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
	// Delete reports whether an edge was removed; deleting a missing edge is
	// not an error.
	Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	Followers(ctx context.Context, userID uuid.UUID) ([]*models.User, error)
	Following(ctx context.Context, userID uuid.UUID) ([]*models.User, error)
	FollowerCount(ctx context.Context, userID uuid.UUID) (int, error)
	FollowingCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type BlockRepository interface {
	Get(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error)
	Create(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error)
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)
	// ExistsBetween checks both directions.
	ExistsBetween(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
	ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}

type PostRepository interface {
	Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	// List returns active posts, newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// CountToday and IncrementToday track the daily creation quota, keyed by
	// (author, UTC calendar day). A new day starts at zero implicitly.
	// IncrementToday is an atomic check-and-increment: it reports false and
	// leaves the counter untouched once the day's count has reached limit.
	CountToday(ctx context.Context, userID uuid.UUID) (int, error)
	IncrementToday(ctx context.Context, userID uuid.UUID, limit int) (bool, error)
}

type ConversationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	// FindByPair matches on the unordered participant set.
	FindByPair(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, []*models.Participant, error)
	Create(ctx context.Context, userA, userB uuid.UUID, aAccepted, bAccepted bool) (*models.Conversation, []*models.Participant, error)
	Participants(ctx context.Context, conversationID uuid.UUID) ([]*models.Participant, error)
	// SetAccepted reports whether a matching participant row was found.
	SetAccepted(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	SetLastRead(ctx context.Context, conversationID, userID uuid.UUID, at time.Time) error
	Touch(ctx context.Context, conversationID uuid.UUID, at time.Time) error
	// Delete removes the conversation, its participants and its messages.
	Delete(ctx context.Context, conversationID uuid.UUID) error
	// ListForUser returns every conversation the user participates in,
	// regardless of acceptance state.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error)
}

type MessageRepository interface {
	Create(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error)
	// ListByConversation returns messages oldest first. limit <= 0 means no
	// limit.
	ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*models.Message, error)
	// MarkRead flips is_read on every message in the conversation not sent by
	// the reader.
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error
	UnreadCount(ctx context.Context, conversationID, userID uuid.UUID) (int, error)
	LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error)
}

type SessionRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) (*models.Session, error)
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context) (int, error)
}

type VerificationTokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	Get(ctx context.Context, tokenHash string) (*models.EmailVerificationToken, error)
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, params models.CreateNotificationParams) (*models.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	// MarkRead reports whether the notification exists and belongs to userID.
	MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}
