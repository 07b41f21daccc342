package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID  `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	DisplayName   string     `json:"display_name"`
	Bio           string     `json:"bio"`
	AvatarURL     *string    `json:"avatar_url"`
	CoverImageURL *string    `json:"cover_image_url"`
	EmailVerified bool       `json:"email_verified"`
	IsActive      bool       `json:"is_active"`
	IsPrivate     bool       `json:"is_private"`
	LastSeen      *time.Time `json:"last_seen"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	DisplayName  string
}

// UpdateUserParams carries a partial profile update. Nil fields are left
// untouched.
type UpdateUserParams struct {
	DisplayName *string
	Bio         *string
	IsPrivate   *bool
}

// UserProfile is the public view of a user, including relationship flags
// relative to the viewer. Blocked pairs never receive a profile at all, so
// there is no block flag here.
type UserProfile struct {
	User
	FollowersCount int     `json:"followers_count"`
	FollowingCount int     `json:"following_count"`
	PostsCount     int     `json:"posts_count"`
	IsFollowing    bool    `json:"is_following"`
	IsFollowedBy   bool    `json:"is_followed_by"`
	Posts          []*Post `json:"posts"`
}
