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

const userColumns = `id, username, email, password_hash, display_name, bio, avatar_url, cover_image_url,
	 email_verified, is_active, is_private, last_seen, created_at, updated_at`

type userRepo struct {
	pool *pgxpool.Pool
}

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DisplayName,
		&user.Bio, &user.AvatarURL, &user.CoverImageURL, &user.EmailVerified,
		&user.IsActive, &user.IsPrivate, &user.LastSeen, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return user, nil
}

func (r *userRepo) Create(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash, display_name, last_seen)
		 VALUES ($1, $2, $3, $4, NOW())
		 RETURNING `+userColumns,
		params.Username, params.Email, params.PasswordHash, params.DisplayName,
	)
	return scanUser(row)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, params models.UpdateUserParams) (*models.User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET
			display_name = COALESCE($2, display_name),
			bio = COALESCE($3, bio),
			is_private = COALESCE($4, is_private),
			updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, params.DisplayName, params.Bio, params.IsPrivate,
	)
	return scanUser(row)
}

func (r *userRepo) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE users SET email_verified = true, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("marking email verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *userRepo) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE users SET last_seen = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touching last_seen: %w", err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *userRepo) Search(ctx context.Context, query string, limit int) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE username ILIKE $1 OR display_name ILIKE $1
		 ORDER BY username
		 LIMIT $2`,
		"%"+query+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
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
