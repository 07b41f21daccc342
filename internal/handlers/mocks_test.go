package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
)

// mockUserService implements services.UserServiceInterface for testing.
type mockUserService struct {
	CreateFunc            func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByIDFunc           func(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsernameFunc     func(ctx context.Context, username string) (*models.User, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*models.User, error)
	UpdateProfileFunc     func(ctx context.Context, userID uuid.UUID, params models.UpdateUserParams) (*models.User, error)
	MarkEmailVerifiedFunc func(ctx context.Context, userID uuid.UUID) error
	TouchLastSeenFunc     func(ctx context.Context, userID uuid.UUID) error
	SearchFunc            func(ctx context.Context, viewerID uuid.UUID, query string, limit int) ([]*models.User, error)
	ProfileFunc           func(ctx context.Context, viewerID uuid.UUID, username string) (*models.UserProfile, error)
}

func (m *mockUserService) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &models.User{ID: uuid.New(), Username: params.Username, Email: params.Email}, nil
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &models.User{ID: id, Username: "testuser"}, nil
}

func (m *mockUserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return &models.User{ID: uuid.New(), Username: username}, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return &models.User{ID: uuid.New(), Email: email}, nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, params models.UpdateUserParams) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, params)
	}
	return &models.User{ID: userID}, nil
}

func (m *mockUserService) MarkEmailVerified(ctx context.Context, userID uuid.UUID) error {
	if m.MarkEmailVerifiedFunc != nil {
		return m.MarkEmailVerifiedFunc(ctx, userID)
	}
	return nil
}

func (m *mockUserService) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	if m.TouchLastSeenFunc != nil {
		return m.TouchLastSeenFunc(ctx, userID)
	}
	return nil
}

func (m *mockUserService) Search(ctx context.Context, viewerID uuid.UUID, query string, limit int) ([]*models.User, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, viewerID, query, limit)
	}
	return []*models.User{}, nil
}

func (m *mockUserService) Profile(ctx context.Context, viewerID uuid.UUID, username string) (*models.UserProfile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, viewerID, username)
	}
	return &models.UserProfile{User: models.User{ID: uuid.New(), Username: username}}, nil
}

// mockAuthService implements services.AuthServiceInterface for testing.
type mockAuthService struct {
	HashPasswordFunc          func(password string) (string, error)
	VerifyPasswordFunc        func(hash, password string) bool
	GenerateSessionTokenFunc  func() (string, string, error)
	CreateSessionFunc         func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateSessionFunc       func(ctx context.Context, token string) (*models.User, error)
	DeleteSessionFunc         func(ctx context.Context, token string) error
	DeleteAllUserSessionsFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockAuthService) HashPassword(password string) (string, error) {
	if m.HashPasswordFunc != nil {
		return m.HashPasswordFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockAuthService) VerifyPassword(hash, password string) bool {
	if m.VerifyPasswordFunc != nil {
		return m.VerifyPasswordFunc(hash, password)
	}
	return hash == "hashed_"+password
}

func (m *mockAuthService) GenerateSessionToken() (string, string, error) {
	if m.GenerateSessionTokenFunc != nil {
		return m.GenerateSessionTokenFunc()
	}
	return "test-token", "test-token-hash", nil
}

func (m *mockAuthService) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, userID)
	}
	return "test-session-token", nil
}

func (m *mockAuthService) ValidateSession(ctx context.Context, token string) (*models.User, error) {
	if m.ValidateSessionFunc != nil {
		return m.ValidateSessionFunc(ctx, token)
	}
	return &models.User{ID: uuid.New(), Username: "testuser"}, nil
}

func (m *mockAuthService) DeleteSession(ctx context.Context, token string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, token)
	}
	return nil
}

func (m *mockAuthService) DeleteAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteAllUserSessionsFunc != nil {
		return m.DeleteAllUserSessionsFunc(ctx, userID)
	}
	return nil
}

// mockSocialService implements services.SocialServiceInterface for testing.
type mockSocialService struct {
	FollowFunc      func(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error)
	UnfollowFunc    func(ctx context.Context, followerID, followingID uuid.UUID) error
	FollowersFunc   func(ctx context.Context, userID uuid.UUID) ([]*models.User, error)
	FollowingFunc   func(ctx context.Context, userID uuid.UUID) ([]*models.User, error)
	AreFriendsFunc  func(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
	BlockFunc       func(ctx context.Context, blockerID, blockedID uuid.UUID) error
	UnblockFunc     func(ctx context.Context, blockerID, blockedID uuid.UUID) error
	IsBlockedFunc   func(ctx context.Context, userID, otherID uuid.UUID) (bool, error)
	ListBlockedFunc func(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error)
}

func (m *mockSocialService) Follow(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	if m.FollowFunc != nil {
		return m.FollowFunc(ctx, followerID, followingID)
	}
	return &models.Follow{FollowerID: followerID, FollowingID: followingID, Status: models.FollowStatusAccepted}, nil
}

func (m *mockSocialService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if m.UnfollowFunc != nil {
		return m.UnfollowFunc(ctx, followerID, followingID)
	}
	return nil
}

func (m *mockSocialService) Followers(ctx context.Context, userID uuid.UUID) ([]*models.User, error) {
	if m.FollowersFunc != nil {
		return m.FollowersFunc(ctx, userID)
	}
	return []*models.User{}, nil
}

func (m *mockSocialService) Following(ctx context.Context, userID uuid.UUID) ([]*models.User, error) {
	if m.FollowingFunc != nil {
		return m.FollowingFunc(ctx, userID)
	}
	return []*models.User{}, nil
}

func (m *mockSocialService) AreFriends(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	if m.AreFriendsFunc != nil {
		return m.AreFriendsFunc(ctx, userID, otherID)
	}
	return false, nil
}

func (m *mockSocialService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if m.BlockFunc != nil {
		return m.BlockFunc(ctx, blockerID, blockedID)
	}
	return nil
}

func (m *mockSocialService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if m.UnblockFunc != nil {
		return m.UnblockFunc(ctx, blockerID, blockedID)
	}
	return nil
}

func (m *mockSocialService) IsBlocked(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	if m.IsBlockedFunc != nil {
		return m.IsBlockedFunc(ctx, userID, otherID)
	}
	return false, nil
}

func (m *mockSocialService) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	if m.ListBlockedFunc != nil {
		return m.ListBlockedFunc(ctx, blockerID)
	}
	return []models.BlockedUser{}, nil
}

// mockPostService implements services.PostServiceInterface for testing.
type mockPostService struct {
	CreateFunc         func(ctx context.Context, params models.CreatePostParams) (*models.Post, error)
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FeedFunc           func(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*models.PostWithUser, error)
	ListByUserFunc     func(ctx context.Context, userID uuid.UUID) ([]*models.Post, error)
	DeleteFunc         func(ctx context.Context, userID, postID uuid.UUID) error
	RemainingTodayFunc func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *mockPostService) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &models.Post{ID: uuid.New(), UserID: params.UserID, Content: params.Content, Type: params.Type}, nil
}

func (m *mockPostService) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return &models.Post{ID: id}, nil
}

func (m *mockPostService) Feed(ctx context.Context, viewerID uuid.UUID, limit, offset int) ([]*models.PostWithUser, error) {
	if m.FeedFunc != nil {
		return m.FeedFunc(ctx, viewerID, limit, offset)
	}
	return []*models.PostWithUser{}, nil
}

func (m *mockPostService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.Post{}, nil
}

func (m *mockPostService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, postID)
	}
	return nil
}

func (m *mockPostService) RemainingToday(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.RemainingTodayFunc != nil {
		return m.RemainingTodayFunc(ctx, userID)
	}
	return 3, nil
}

// mockConversationService implements services.ConversationServiceInterface for testing.
type mockConversationService struct {
	FindOrCreateFunc    func(ctx context.Context, userID, otherID uuid.UUID) (*models.Conversation, bool, error)
	ListFunc            func(ctx context.Context, userID uuid.UUID) ([]*models.ConversationSummary, error)
	PendingRequestsFunc func(ctx context.Context, userID uuid.UUID) ([]*models.MessageRequest, error)
	AcceptFunc          func(ctx context.Context, userID, conversationID uuid.UUID) error
	DeclineFunc         func(ctx context.Context, userID, conversationID uuid.UUID) error
	GetFunc             func(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error)
}

func (m *mockConversationService) FindOrCreate(ctx context.Context, userID, otherID uuid.UUID) (*models.Conversation, bool, error) {
	if m.FindOrCreateFunc != nil {
		return m.FindOrCreateFunc(ctx, userID, otherID)
	}
	return &models.Conversation{ID: uuid.New()}, false, nil
}

func (m *mockConversationService) List(ctx context.Context, userID uuid.UUID) ([]*models.ConversationSummary, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*models.ConversationSummary{}, nil
}

func (m *mockConversationService) PendingRequests(ctx context.Context, userID uuid.UUID) ([]*models.MessageRequest, error) {
	if m.PendingRequestsFunc != nil {
		return m.PendingRequestsFunc(ctx, userID)
	}
	return []*models.MessageRequest{}, nil
}

func (m *mockConversationService) Accept(ctx context.Context, userID, conversationID uuid.UUID) error {
	if m.AcceptFunc != nil {
		return m.AcceptFunc(ctx, userID, conversationID)
	}
	return nil
}

func (m *mockConversationService) Decline(ctx context.Context, userID, conversationID uuid.UUID) error {
	if m.DeclineFunc != nil {
		return m.DeclineFunc(ctx, userID, conversationID)
	}
	return nil
}

func (m *mockConversationService) Get(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, conversationID)
	}
	return &models.Conversation{ID: conversationID}, nil
}

// mockMessageService implements services.MessageServiceInterface for testing.
type mockMessageService struct {
	SendFunc        func(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error)
	ListFunc        func(ctx context.Context, conversationID, userID uuid.UUID, limit, offset int) ([]*models.MessageWithSender, error)
	MarkReadFunc    func(ctx context.Context, conversationID, userID uuid.UUID) error
	TotalUnreadFunc func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *mockMessageService) Send(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, conversationID, senderID, content)
	}
	return &models.Message{ID: uuid.New(), ConversationID: conversationID, SenderID: senderID, Content: content}, nil
}

func (m *mockMessageService) List(ctx context.Context, conversationID, userID uuid.UUID, limit, offset int) ([]*models.MessageWithSender, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, conversationID, userID, limit, offset)
	}
	return []*models.MessageWithSender{}, nil
}

func (m *mockMessageService) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, conversationID, userID)
	}
	return nil
}

func (m *mockMessageService) TotalUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.TotalUnreadFunc != nil {
		return m.TotalUnreadFunc(ctx, userID)
	}
	return 0, nil
}

// mockNotificationService implements services.NotificationServiceInterface for testing.
type mockNotificationService struct {
	NotifyFunc      func(ctx context.Context, params models.CreateNotificationParams) error
	ListFunc        func(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error)
	MarkReadFunc    func(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllReadFunc func(ctx context.Context, userID uuid.UUID) error
	UnreadCountFunc func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *mockNotificationService) Notify(ctx context.Context, params models.CreateNotificationParams) error {
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, params)
	}
	return nil
}

func (m *mockNotificationService) List(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*models.Notification{}, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, userID, notificationID)
	}
	return nil
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	return nil
}

func (m *mockNotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.UnreadCountFunc != nil {
		return m.UnreadCountFunc(ctx, userID)
	}
	return 0, nil
}

// mockEmailService implements services.EmailServiceInterface for testing.
type mockEmailService struct {
	SendVerificationEmailFunc func(ctx context.Context, userID uuid.UUID, email string) error
	VerifyEmailFunc           func(ctx context.Context, token string) error
}

func (m *mockEmailService) SendVerificationEmail(ctx context.Context, userID uuid.UUID, email string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, userID, email)
	}
	return nil
}

func (m *mockEmailService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return nil
}
