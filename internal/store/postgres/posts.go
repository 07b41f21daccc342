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

const postColumns = `id, user_id, content, post_type, game_name, is_active, created_at, updated_at`

type postRepo struct {
	pool *pgxpool.Pool
}

func scanPost(row pgx.Row) (*models.Post, error) {
	post := &models.Post{}
	err := row.Scan(
		&post.ID, &post.UserID, &post.Content, &post.Type, &post.GameName,
		&post.IsActive, &post.CreatedAt, &post.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post: %w", err)
	}
	return post, nil
}

func (r *postRepo) Create(ctx context.Context, params models.CreatePostParams) (*models.Post, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO posts (user_id, content, post_type, game_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+postColumns,
		params.UserID, params.Content, params.Type, params.GameName,
	)
	return scanPost(row)
}

func (r *postRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

func (r *postRepo) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts
		 WHERE is_active = true
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *postRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+postColumns+` FROM posts
		 WHERE user_id = $1 AND is_active = true
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing user posts: %w", err)
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]*models.Post, error) {
	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE posts SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft-deleting post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *postRepo) CountToday(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(count, 0) FROM daily_post_counts
		 WHERE user_id = $1 AND day = (NOW() AT TIME ZONE 'UTC')::date`,
		userID,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("counting today's posts: %w", err)
	}
	return count, nil
}

// IncrementToday bumps the counter only while it is below limit; the
// conditional upsert makes concurrent callers serialize on the row.
func (r *postRepo) IncrementToday(ctx context.Context, userID uuid.UUID, limit int) (bool, error) {
	result, err := r.pool.Exec(ctx,
		`INSERT INTO daily_post_counts (user_id, day, count)
		 VALUES ($1, (NOW() AT TIME ZONE 'UTC')::date, 1)
		 ON CONFLICT (user_id, day) DO UPDATE SET count = daily_post_counts.count + 1
		 WHERE daily_post_counts.count < $2`,
		userID, limit,
	)
	if err != nil {
		return false, fmt.Errorf("incrementing daily post count: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
