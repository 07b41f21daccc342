package models

import (
	"time"

	"github.com/google/uuid"
)

type PostType string

const (
	PostTypeGeneral          PostType = "general"
	PostTypeLookingForFriend PostType = "looking_for_friend"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	Type      PostType  `json:"post_type"`
	GameName  *string   `json:"game_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreatePostParams struct {
	UserID   uuid.UUID
	Content  string
	Type     PostType
	GameName *string
}

type PostWithUser struct {
	Post
	User *User `json:"user"`
}
