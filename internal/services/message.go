package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

type MessageService struct {
	store    store.Store
	notifier Notifier // nil disables message notifications
}

func NewMessageService(st store.Store, notifier Notifier) *MessageService {
	return &MessageService{store: st, notifier: notifier}
}

// Send appends a message and bumps the conversation's activity timestamp.
// Only participants may send; acceptance state does not gate sending, so the
// initiator of a pending request can keep writing.
func (s *MessageService) Send(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error) {
	parts, err := s.store.Conversations().Participants(ctx, conversationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	var recipient *models.Participant
	sender := false
	for _, p := range parts {
		if p.UserID == senderID {
			sender = true
		} else {
			recipient = p
		}
	}
	if !sender {
		return nil, ErrNotParticipant
	}

	msg, err := s.store.Messages().Create(ctx, conversationID, senderID, content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("creating message: %w", err)
	}

	if err := s.store.Conversations().Touch(ctx, conversationID, time.Now()); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("touching conversation: %w", err)
	}

	if s.notifier != nil && recipient != nil {
		fromID := senderID
		refID := conversationID
		_ = s.notifier.Notify(ctx, models.CreateNotificationParams{
			UserID:      recipient.UserID,
			Type:        models.NotificationTypeMessage,
			FromUserID:  &fromID,
			ReferenceID: &refID,
		})
	}

	return msg, nil
}

// List returns the conversation's messages oldest first with senders
// attached. Only participants may read.
func (s *MessageService) List(ctx context.Context, conversationID, userID uuid.UUID, limit, offset int) ([]*models.MessageWithSender, error) {
	if err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	msgs, err := s.store.Messages().ListByConversation(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	senders := map[uuid.UUID]*models.User{}
	result := []*models.MessageWithSender{}
	for _, msg := range msgs {
		sender, ok := senders[msg.SenderID]
		if !ok {
			sender, err = s.store.Users().GetByID(ctx, msg.SenderID)
			if errors.Is(err, store.ErrNotFound) {
				sender = nil
			} else if err != nil {
				return nil, fmt.Errorf("getting sender: %w", err)
			}
			senders[msg.SenderID] = sender
		}
		result = append(result, &models.MessageWithSender{Message: *msg, Sender: sender})
	}
	return result, nil
}

// MarkRead flips the read flag on every message the caller did not send and
// records the read time on their participant row.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, userID uuid.UUID) error {
	if err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return err
	}

	if err := s.store.Messages().MarkRead(ctx, conversationID, userID); err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}
	if err := s.store.Conversations().SetLastRead(ctx, conversationID, userID, time.Now()); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("recording read time: %w", err)
	}
	return nil
}

// TotalUnread sums unread counts across every conversation the user has
// accepted.
func (s *MessageService) TotalUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	convs, err := s.store.Conversations().ListForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("listing conversations: %w", err)
	}

	total := 0
	for _, conv := range convs {
		parts, err := s.store.Conversations().Participants(ctx, conv.ID)
		if err != nil {
			return 0, fmt.Errorf("listing participants: %w", err)
		}
		accepted := false
		for _, p := range parts {
			if p.UserID == userID && p.IsAccepted {
				accepted = true
			}
		}
		if !accepted {
			continue
		}

		unread, err := s.store.Messages().UnreadCount(ctx, conv.ID, userID)
		if err != nil {
			return 0, fmt.Errorf("counting unread: %w", err)
		}
		total += unread
	}
	return total, nil
}

func (s *MessageService) requireParticipant(ctx context.Context, userID, conversationID uuid.UUID) error {
	parts, err := s.store.Conversations().Participants(ctx, conversationID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrConversationNotFound
	}
	if err != nil {
		return fmt.Errorf("listing participants: %w", err)
	}

	for _, p := range parts {
		if p.UserID == userID {
			return nil
		}
	}
	return ErrNotParticipant
}
