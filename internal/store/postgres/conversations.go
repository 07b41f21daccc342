package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

type conversationRepo struct {
	pool *pgxpool.Pool
}

func (r *conversationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at, updated_at FROM conversations WHERE id = $1`, id,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}
	return conv, nil
}

func (r *conversationRepo) FindByPair(ctx context.Context, userA, userB uuid.UUID) (*models.Conversation, []*models.Participant, error) {
	conv := &models.Conversation{}
	err := r.pool.QueryRow(ctx,
		`SELECT c.id, c.created_at, c.updated_at
		 FROM conversations c
		 WHERE EXISTS (SELECT 1 FROM conversation_participants WHERE conversation_id = c.id AND user_id = $1)
		   AND EXISTS (SELECT 1 FROM conversation_participants WHERE conversation_id = c.id AND user_id = $2)`,
		userA, userB,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, store.ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("finding conversation by pair: %w", err)
	}

	parts, err := r.Participants(ctx, conv.ID)
	if err != nil {
		return nil, nil, err
	}
	return conv, parts, nil
}

func (r *conversationRepo) Create(ctx context.Context, userA, userB uuid.UUID, aAccepted, bAccepted bool) (*models.Conversation, []*models.Participant, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin conversation transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	conv := &models.Conversation{}
	err = tx.QueryRow(ctx,
		`INSERT INTO conversations DEFAULT VALUES
		 RETURNING id, created_at, updated_at`,
	).Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("inserting conversation: %w", err)
	}

	parts := []*models.Participant{}
	for _, seed := range []struct {
		userID   uuid.UUID
		accepted bool
	}{{userA, aAccepted}, {userB, bAccepted}} {
		p := &models.Participant{}
		err = tx.QueryRow(ctx,
			`INSERT INTO conversation_participants (conversation_id, user_id, is_accepted)
			 VALUES ($1, $2, $3)
			 RETURNING conversation_id, user_id, is_accepted, last_read_at, created_at`,
			conv.ID, seed.userID, seed.accepted,
		).Scan(&p.ConversationID, &p.UserID, &p.IsAccepted, &p.LastReadAt, &p.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("inserting participant: %w", err)
		}
		parts = append(parts, p)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit conversation: %w", err)
	}
	committed = true
	return conv, parts, nil
}

func (r *conversationRepo) Participants(ctx context.Context, conversationID uuid.UUID) ([]*models.Participant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT conversation_id, user_id, is_accepted, last_read_at, created_at
		 FROM conversation_participants
		 WHERE conversation_id = $1
		 ORDER BY created_at`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}
	defer rows.Close()

	parts := []*models.Participant{}
	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(&p.ConversationID, &p.UserID, &p.IsAccepted, &p.LastReadAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning participant: %w", err)
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return nil, store.ErrNotFound
	}
	return parts, rows.Err()
}

func (r *conversationRepo) SetAccepted(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE conversation_participants SET is_accepted = true
		 WHERE conversation_id = $1 AND user_id = $2`,
		conversationID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("accepting conversation: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *conversationRepo) SetLastRead(ctx context.Context, conversationID, userID uuid.UUID, at time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE conversation_participants SET last_read_at = $3
		 WHERE conversation_id = $1 AND user_id = $2`,
		conversationID, userID, at,
	)
	if err != nil {
		return fmt.Errorf("setting last_read_at: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *conversationRepo) Touch(ctx context.Context, conversationID uuid.UUID, at time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE conversations SET updated_at = $2 WHERE id = $1`, conversationID, at)
	if err != nil {
		return fmt.Errorf("touching conversation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for participants and messages.
func (r *conversationRepo) Delete(ctx context.Context, conversationID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, conversationID)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *conversationRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Conversation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.id, c.created_at, c.updated_at
		 FROM conversations c
		 JOIN conversation_participants p ON p.conversation_id = c.id
		 WHERE p.user_id = $1
		 ORDER BY c.updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	convs := []*models.Conversation{}
	for rows.Next() {
		conv := &models.Conversation{}
		if err := rows.Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

type messageRepo struct {
	pool *pgxpool.Pool
}

const messageColumns = `id, conversation_id, sender_id, content, is_read, created_at`

func (r *messageRepo) Create(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error) {
	msg := &models.Message{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, sender_id, content)
		 VALUES ($1, $2, $3)
		 RETURNING `+messageColumns,
		conversationID, senderID, content,
	).Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.IsRead, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}
	return msg, nil
}

func (r *messageRepo) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*models.Message, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at
		 LIMIT $2 OFFSET $3`,
		conversationID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	msgs := []*models.Message{}
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.IsRead, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

func (r *messageRepo) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET is_read = true
		 WHERE conversation_id = $1 AND sender_id != $2`,
		conversationID, readerID,
	)
	if err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}
	return nil
}

func (r *messageRepo) UnreadCount(ctx context.Context, conversationID, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages
		 WHERE conversation_id = $1 AND sender_id != $2 AND is_read = false`,
		conversationID, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}
	return count, nil
}

func (r *messageRepo) LastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	msg := &models.Message{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		conversationID,
	).Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Content, &msg.IsRead, &msg.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting last message: %w", err)
	}
	return msg, nil
}
