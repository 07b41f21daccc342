package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("not a conversation participant")
	ErrCannotMessageSelf    = errors.New("cannot message yourself")
)

// ConversationService manages one-to-one conversations and the message
// request lifecycle. A conversation between mutual followers starts accepted
// on both sides; otherwise the recipient's side stays unaccepted until they
// accept, and declining removes the conversation entirely.
type ConversationService struct {
	store   store.Store
	friends FriendChecker
	blocks  BlockChecker
}

func NewConversationService(st store.Store, friends FriendChecker, blocks BlockChecker) *ConversationService {
	return &ConversationService{store: st, friends: friends, blocks: blocks}
}

// FindOrCreate returns the conversation between the two users, creating it
// if necessary. needsRequest reports whether the conversation is still a
// pending message request from the caller's perspective.
func (s *ConversationService) FindOrCreate(ctx context.Context, userID, otherID uuid.UUID) (*models.Conversation, bool, error) {
	if userID == otherID {
		return nil, false, ErrCannotMessageSelf
	}

	if _, err := s.store.Users().GetByID(ctx, otherID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("getting user: %w", err)
	}

	blocked, err := s.blocks.IsBlocked(ctx, userID, otherID)
	if err != nil {
		return nil, false, err
	}
	if blocked {
		return nil, false, ErrUserBlocked
	}

	conv, parts, err := s.store.Conversations().FindByPair(ctx, userID, otherID)
	if err == nil {
		return conv, !allAccepted(parts), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("finding conversation: %w", err)
	}

	friends, err := s.friends.AreFriends(ctx, userID, otherID)
	if err != nil {
		return nil, false, err
	}

	// The initiator always starts accepted; the other side starts accepted
	// only when the two already follow each other.
	conv, _, err = s.store.Conversations().Create(ctx, userID, otherID, true, friends)
	if err != nil {
		return nil, false, fmt.Errorf("creating conversation: %w", err)
	}
	return conv, !friends, nil
}

// List returns the caller's inbox: conversations they have accepted, newest
// activity first. Pending requests are listed separately.
func (s *ConversationService) List(ctx context.Context, userID uuid.UUID) ([]*models.ConversationSummary, error) {
	convs, err := s.store.Conversations().ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	summaries := []*models.ConversationSummary{}
	for _, conv := range convs {
		parts, err := s.store.Conversations().Participants(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("listing participants: %w", err)
		}

		mine, other := splitParticipants(parts, userID)
		if mine == nil || other == nil || !mine.IsAccepted {
			continue
		}

		otherUser, err := s.store.Users().GetByID(ctx, other.UserID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("getting participant user: %w", err)
		}

		summary := &models.ConversationSummary{
			Conversation: *conv,
			OtherUser:    otherUser,
		}

		last, err := s.store.Messages().LastMessage(ctx, conv.ID)
		if err == nil {
			summary.LastMessage = last
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("getting last message: %w", err)
		}

		unread, err := s.store.Messages().UnreadCount(ctx, conv.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("counting unread: %w", err)
		}
		summary.UnreadCount = unread

		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// PendingRequests returns conversations awaiting the caller's acceptance.
func (s *ConversationService) PendingRequests(ctx context.Context, userID uuid.UUID) ([]*models.MessageRequest, error) {
	convs, err := s.store.Conversations().ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	requests := []*models.MessageRequest{}
	for _, conv := range convs {
		parts, err := s.store.Conversations().Participants(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("listing participants: %w", err)
		}

		mine, other := splitParticipants(parts, userID)
		if mine == nil || other == nil {
			continue
		}
		if mine.IsAccepted || !other.IsAccepted {
			continue
		}

		sender, err := s.store.Users().GetByID(ctx, other.UserID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("getting sender: %w", err)
		}

		requests = append(requests, &models.MessageRequest{
			ID:             conv.ID,
			ConversationID: conv.ID,
			SenderID:       other.UserID,
			ReceiverID:     userID,
			CreatedAt:      conv.CreatedAt,
			UpdatedAt:      conv.UpdatedAt,
			Sender:         sender,
		})
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

// Accept marks the caller's side of the conversation accepted.
func (s *ConversationService) Accept(ctx context.Context, userID, conversationID uuid.UUID) error {
	if err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return err
	}

	ok, err := s.store.Conversations().SetAccepted(ctx, conversationID, userID)
	if err != nil {
		return fmt.Errorf("accepting conversation: %w", err)
	}
	if !ok {
		return ErrConversationNotFound
	}
	return nil
}

// Decline removes the conversation along with its participants and messages.
func (s *ConversationService) Decline(ctx context.Context, userID, conversationID uuid.UUID) error {
	if err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return err
	}

	if err := s.store.Conversations().Delete(ctx, conversationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("deleting conversation: %w", err)
	}
	return nil
}

// Get returns the conversation if the caller participates in it.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID uuid.UUID) (*models.Conversation, error) {
	conv, err := s.store.Conversations().GetByID(ctx, conversationID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}

	if err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) requireParticipant(ctx context.Context, userID, conversationID uuid.UUID) error {
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

func splitParticipants(parts []*models.Participant, userID uuid.UUID) (mine, other *models.Participant) {
	for _, p := range parts {
		if p.UserID == userID {
			mine = p
		} else {
			other = p
		}
	}
	return mine, other
}

func allAccepted(parts []*models.Participant) bool {
	for _, p := range parts {
		if !p.IsAccepted {
			return false
		}
	}
	return true
}
