package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamemates/server/internal/models"
)

type notificationRepo struct {
	pool *pgxpool.Pool
}

func (r *notificationRepo) Create(ctx context.Context, params models.CreateNotificationParams) (*models.Notification, error) {
	n := &models.Notification{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notifications (user_id, type, from_user_id, reference_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, user_id, type, from_user_id, reference_id, is_read, created_at`,
		params.UserID, params.Type, params.FromUserID, params.ReferenceID,
	).Scan(&n.ID, &n.UserID, &n.Type, &n.FromUserID, &n.ReferenceID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting notification: %w", err)
	}
	return n, nil
}

func (r *notificationRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.user_id, n.type, n.from_user_id, n.reference_id, n.is_read, n.created_at,
		        u.id, u.username, u.display_name, u.avatar_url
		 FROM notifications n
		 LEFT JOIN users u ON n.from_user_id = u.id
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	notifs := []*models.Notification{}
	for rows.Next() {
		n := &models.Notification{}
		var (
			fromID          *uuid.UUID
			fromUsername    *string
			fromDisplayName *string
			fromAvatarURL   *string
		)
		err := rows.Scan(
			&n.ID, &n.UserID, &n.Type, &n.FromUserID, &n.ReferenceID, &n.IsRead, &n.CreatedAt,
			&fromID, &fromUsername, &fromDisplayName, &fromAvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		if fromID != nil {
			n.FromUser = &models.User{
				ID:          *fromID,
				Username:    *fromUsername,
				DisplayName: *fromDisplayName,
				AvatarURL:   fromAvatarURL,
			}
		}
		notifs = append(notifs, n)
	}
	return notifs, rows.Err()
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("marking notification read: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

func (r *notificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}
