package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

type conversationRepo struct {
	s *Store
}

func (r *conversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if rec := r.s.conversationLocked(id); rec != nil {
		c := *rec.conv
		return &c, nil
	}
	return nil, store.ErrNotFound
}

func (r *conversationRepo) FindByPair(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, []*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rec := range r.s.conversations {
		if rec.hasParticipant(userA) && rec.hasParticipant(userB) {
			c := *rec.conv
			return &c, cloneParticipants(rec.participants), nil
		}
	}
	return nil, nil, store.ErrNotFound
}

func (r *conversationRepo) Create(ctx context.Context, userA, userB uuid.UUID, aAccepted, bAccepted bool) (*models.Conversation, []*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	rec := &conversationRecord{
		conv: &models.Conversation{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	rec.participants = []*models.Participant{
		{ConversationID: rec.conv.ID, UserID: userA, IsAccepted: aAccepted, CreatedAt: now},
		{ConversationID: rec.conv.ID, UserID: userB, IsAccepted: bAccepted, CreatedAt: now},
	}
	r.s.conversations = append(r.s.conversations, rec)

	c := *rec.conv
	return &c, cloneParticipants(rec.participants), nil
}

func (r *conversationRepo) Participants(ctx context.Context, conversationID uuid.UUID) ([]*models.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil {
		return nil, store.ErrNotFound
	}
	return cloneParticipants(rec.participants), nil
}

func (r *conversationRepo) SetAccepted(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil {
		return false, nil
	}
	for _, p := range rec.participants {
		if p.UserID == userID {
			p.IsAccepted = true
			return true, nil
		}
	}
	return false, nil
}

func (r *conversationRepo) SetLastRead(ctx context.Context, conversationID, userID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil {
		return store.ErrNotFound
	}
	for _, p := range rec.participants {
		if p.UserID == userID {
			t := at
			p.LastReadAt = &t
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *conversationRepo) Touch(ctx context.Context, conversationID uuid.UUID, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil {
		return store.ErrNotFound
	}
	rec.conv.UpdatedAt = at
	return nil
}

// Delete is the decline tombstone: conversation, participants and messages
// all go at once.
func (r *conversationRepo) Delete(ctx context.Context, conversationID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, rec := range r.s.conversations {
		if rec.conv.ID == conversationID {
			r.s.conversations = append(r.s.conversations[:i], r.s.conversations[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (r *conversationRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	convs := []*models.Conversation{}
	for _, rec := range r.s.conversations {
		if rec.hasParticipant(userID) {
			c := *rec.conv
			convs = append(convs, &c)
		}
	}
	return convs, nil
}

func (s *Store) conversationLocked(id uuid.UUID) *conversationRecord {
	for _, rec := range s.conversations {
		if rec.conv.ID == id {
			return rec
		}
	}
	return nil
}

func (rec *conversationRecord) hasParticipant(userID uuid.UUID) bool {
	for _, p := range rec.participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func cloneParticipants(parts []*models.Participant) []*models.Participant {
	out := make([]*models.Participant, 0, len(parts))
	for _, p := range parts {
		c := *p
		out = append(out, &c)
	}
	return out
}

type messageRepo struct {
	s *Store
}

func (r *messageRepo) Create(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil {
		return nil, store.ErrNotFound
	}
	msg := &models.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      r.s.now(),
	}
	rec.messages = append(rec.messages, msg)

	c := *msg
	return &c, nil
}

func (r *messageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil {
		return nil, store.ErrNotFound
	}

	msgs := []*models.Message{}
	for i, m := range rec.messages {
		if i < offset {
			continue
		}
		if limit > 0 && len(msgs) >= limit {
			break
		}
		c := *m
		msgs = append(msgs, &c)
	}
	return msgs, nil
}

func (r *messageRepo) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil {
		return store.ErrNotFound
	}
	for _, m := range rec.messages {
		if m.SenderID != readerID {
			m.IsRead = true
		}
	}
	return nil
}

func (r *messageRepo) UnreadCount(ctx context.Context, conversationID, userID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil {
		return 0, store.ErrNotFound
	}
	count := 0
	for _, m := range rec.messages {
		if m.SenderID != userID && !m.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *messageRepo) LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec := r.s.conversationLocked(conversationID)
	if rec == nil || len(rec.messages) == 0 {
		return nil, store.ErrNotFound
	}
	c := *rec.messages[len(rec.messages)-1]
	return &c, nil
}
