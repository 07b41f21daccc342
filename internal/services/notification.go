package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	store store.Store
}

func NewNotificationService(st store.Store) *NotificationService {
	return &NotificationService{store: st}
}

func (s *NotificationService) Notify(ctx context.Context, params models.CreateNotificationParams) error {
	if _, err := s.store.Notifications().Create(ctx, params); err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	notifs, err := s.store.Notifications().ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifs, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	ok, err := s.store.Notifications().MarkRead(ctx, notificationID, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Notifications().MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.store.Notifications().UnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}
