package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeFollow         NotificationType = "follow"
	NotificationTypeMessage        NotificationType = "message"
	NotificationTypeMessageRequest NotificationType = "message_request"
)

type Notification struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	Type        NotificationType `json:"type"`
	FromUserID  *uuid.UUID       `json:"from_user_id"`
	ReferenceID *uuid.UUID       `json:"reference_id"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
	FromUser    *User            `json:"from_user,omitempty"`
}

type CreateNotificationParams struct {
	UserID      uuid.UUID
	Type        NotificationType
	FromUserID  *uuid.UUID
	ReferenceID *uuid.UUID
}
