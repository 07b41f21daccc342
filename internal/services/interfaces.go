package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
)

// UserServiceInterface defines the contract for user operations.
type UserServiceInterface interface {
	Create(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateUserParams) (*models.User, error)
	MarkEmailVerified(ctx context.Context, userID uuid.UUID) error
	TouchLastSeen(ctx context.Context, userID uuid.UUID) error
	Search(ctx context.Context, viewerID uuid.UUID, query string, limit int) ([]*models.User, error)
	Profile(ctx context.Context, viewerID uuid.UUID, username string) (*models.UserProfile, error)
}

// AuthServiceInterface defines the contract for authentication operations.
type AuthServiceInterface interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
	GenerateSessionToken() (token string, hash string, err error)
	CreateSession(ctx context.Context, userID uuid.UUID) (token string, err error)
	ValidateSession(ctx context.Context, token string) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteAllUserSessions(ctx context.Context, userID uuid.UUID) error
}

// SocialServiceInterface defines the contract for follow and block
// operations.
type SocialServiceInterface interface {
	Follow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error
	Followers(ctx context.Context, userID uuid.UUID) ([]*models.User, error)
	Following(ctx context.Context, userID uuid.UUID) ([]*models.User, error)
	AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
	Block(ctx context.Context, blockerID, blockedID uuid.UUID) error
	Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error
	IsBlocked(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
	ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}

// FriendChecker is the mutual-follow check used by the conversation service.
type FriendChecker interface {
	AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
}

// BlockChecker is the block check used by the conversation service.
type BlockChecker interface {
	IsBlocked(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
}

// Notifier creates notifications without exposing the full notification
// service.
type Notifier interface {
	Notify(ctx context.Context, params models.CreateNotificationParams) error
}

// PostServiceInterface defines the contract for post operations.
type PostServiceInterface interface {
	Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	Feed(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*models.PostWithUser, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) error
	RemainingToday(ctx context.Context, userID uuid.UUID) (int, error)
}

// ConversationServiceInterface defines the contract for conversation and
// message request operations.
type ConversationServiceInterface interface {
	FindOrCreate(ctx context.Context, userID, otherID uuid.UUID) (*models.Conversation, bool, error)
	List(ctx context.Context, userID uuid.UUID) ([]*models.ConversationSummary, error)
	PendingRequests(ctx context.Context, userID uuid.UUID) ([]*models.MessageRequest, error)
	Accept(ctx context.Context, userID, conversationID uuid.UUID) error
	Decline(ctx context.Context, userID, conversationID uuid.UUID) error
	Get(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error)
}

// MessageServiceInterface defines the contract for message operations.
type MessageServiceInterface interface {
	Send(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error)
	List(ctx context.Context, conversationID, userID uuid.UUID, limit, offset int) ([]*models.MessageWithSender, error)
	MarkRead(ctx context.Context, conversationID, userID uuid.UUID) error
	TotalUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationServiceInterface defines the contract for notification
// operations.
type NotificationServiceInterface interface {
	Notify(ctx context.Context, params models.CreateNotificationParams) error
	List(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
}

// EmailServiceInterface defines the contract for email operations.
type EmailServiceInterface interface {
	SendVerificationEmail(ctx context.Context, userID uuid.UUID, email string) error
	VerifyEmail(ctx context.Context, token string) error
}
