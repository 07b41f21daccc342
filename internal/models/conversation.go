package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation holds no participant data itself; the two Participant rows
// carry acceptance and read state.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Participant struct {
	ConversationID uuid.UUID  `json:"conversation_id"`
	UserID         uuid.UUID  `json:"user_id"`
	IsAccepted     bool       `json:"is_accepted"`
	LastReadAt     *time.Time `json:"last_read_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ConversationSummary is the inbox view: the conversation plus the other
// party, the latest message and the caller's unread count.
type ConversationSummary struct {
	Conversation
	OtherUser   *User    `json:"other_user"`
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count"`
}

// MessageRequest is a derived view, not a stored entity: any conversation
// where the sender's participant row is accepted and the receiver's is not.
type MessageRequest struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	ReceiverID     uuid.UUID `json:"receiver_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Sender         *User     `json:"sender"`
}
