package models

import (
	"time"

	"github.com/google/uuid"
)

type FollowStatus string

const (
	FollowStatusPending  FollowStatus = "pending"
	FollowStatusAccepted FollowStatus = "accepted"
)

// Follow is a directed subscription edge. The pending status exists in the
// schema but is never produced: follows are created accepted.
type Follow struct {
	ID          uuid.UUID    `json:"id"`
	FollowerID  uuid.UUID    `json:"follower_id"`
	FollowingID uuid.UUID    `json:"following_id"`
	Status      FollowStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}
