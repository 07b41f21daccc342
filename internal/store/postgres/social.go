package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gamemates/server/internal/models"
	"github.com/gamemates/server/internal/store"
)

type followRepo struct {
	pool *pgxpool.Pool
}

func (r *followRepo) Get(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	follow := &models.Follow{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, follower_id, following_id, status, created_at
		 FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID,
	).Scan(&follow.ID, &follow.FollowerID, &follow.FollowingID, &follow.Status, &follow.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting follow: %w", err)
	}
	return follow, nil
}

func (r *followRepo) Create(ctx context.Context, followerID, followingID uuid.UUID) (*models.Follow, error) {
	follow := &models.Follow{}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO follows (follower_id, following_id, status)
		 VALUES ($1, $2, 'accepted')
		 RETURNING id, follower_id, following_id, status, created_at`,
		followerID, followingID,
	).Scan(&follow.ID, &follow.FollowerID, &follow.FollowingID, &follow.Status, &follow.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating follow: %w", err)
	}
	return follow, nil
}

func (r *followRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting follow: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *followRepo) Followers(ctx context.Context, userID uuid.UUID) ([]*models.User, error) {
	return r.listRelated(ctx,
		`SELECT `+userColumns+` FROM users u
		 JOIN follows f ON f.follower_id = u.id
		 WHERE f.following_id = $1 AND f.status = 'accepted'
		 ORDER BY f.created_at DESC`,
		userID,
	)
}

func (r *followRepo) Following(ctx context.Context, userID uuid.UUID) ([]*models.User, error) {
	return r.listRelated(ctx,
		`SELECT `+userColumns+` FROM users u
		 JOIN follows f ON f.following_id = u.id
		 WHERE f.follower_id = $1 AND f.status = 'accepted'
		 ORDER BY f.created_at DESC`,
		userID,
	)
}

func (r *followRepo) listRelated(ctx context.Context, sql string, userID uuid.UUID) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("listing follow relations: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *followRepo) FollowerCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM follows WHERE following_id = $1 AND status = 'accepted'`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting followers: %w", err)
	}
	return count, nil
}

func (r *followRepo) FollowingCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM follows WHERE follower_id = $1 AND status = 'accepted'`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting following: %w", err)
	}
	return count, nil
}

type blockRepo struct {
	pool *pgxpool.Pool
}

func (r *blockRepo) Get(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	block := &models.Block{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, blocker_id, blocked_id, created_at
		 FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`,
		blockerID, blockedID,
	).Scan(&block.ID, &block.BlockerID, &block.BlockedID, &block.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting block: %w", err)
	}
	return block, nil
}

func (r *blockRepo) Create(ctx context.Context, blockerID, blockedID uuid.UUID) (*models.Block, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin block transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`DELETE FROM follows
		 WHERE (follower_id = $1 AND following_id = $2)
		    OR (follower_id = $2 AND following_id = $1)`,
		blockerID, blockedID,
	)
	if err != nil {
		return nil, fmt.Errorf("removing follows: %w", err)
	}

	block := &models.Block{}
	err = tx.QueryRow(ctx,
		`INSERT INTO blocks (blocker_id, blocked_id)
		 VALUES ($1, $2)
		 ON CONFLICT (blocker_id, blocked_id) DO UPDATE SET blocker_id = EXCLUDED.blocker_id
		 RETURNING id, blocker_id, blocked_id, created_at`,
		blockerID, blockedID,
	).Scan(&block.ID, &block.BlockerID, &block.BlockedID, &block.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting block: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit block: %w", err)
	}
	committed = true
	return block, nil
}

func (r *blockRepo) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`,
		blockerID, blockedID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting block: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *blockRepo) ExistsBetween(ctx context.Context, userID, otherID uuid.UUID) (bool, error) {
	var blocked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2)
			   OR (blocker_id = $2 AND blocked_id = $1)
		)`,
		userID, otherID,
	).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("checking block status: %w", err)
	}
	return blocked, nil
}

func (r *blockRepo) ListBlocked(ctx context.Context, blockerID uuid.UUID) ([]models.BlockedUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.username, u.display_name, b.created_at
		 FROM blocks b
		 JOIN users u ON b.blocked_id = u.id
		 WHERE b.blocker_id = $1
		 ORDER BY u.username`,
		blockerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing blocked users: %w", err)
	}
	defer rows.Close()

	blocked := []models.BlockedUser{}
	for rows.Next() {
		var u models.BlockedUser
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.BlockedAt); err != nil {
			return nil, fmt.Errorf("scanning blocked user: %w", err)
		}
		blocked = append(blocked, u)
	}
	return blocked, rows.Err()
}
