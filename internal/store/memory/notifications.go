package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
)

type notificationRepo struct {
	s *Store
}

func (r *notificationRepo) Create(ctx context.Context, params models.CreateNotificationParams) (*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := &models.Notification{
		ID:          uuid.New(),
		UserID:      params.UserID,
		Type:        params.Type,
		FromUserID:  params.FromUserID,
		ReferenceID: params.ReferenceID,
		CreatedAt:   r.s.now(),
	}
	r.s.notifications = append(r.s.notifications, n)

	c := *n
	return &c, nil
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []*models.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID != userID {
			continue
		}
		c := *n
		if n.FromUserID != nil {
			c.FromUser = r.s.userByIDLocked(*n.FromUserID)
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (r *notificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
