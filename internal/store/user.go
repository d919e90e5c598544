package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"propbill.app/server/internal/model"
)

type userStore struct {
	q Querier
}

const userColumns = `id, google_id, email, name, avatar_url, oauth_token, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.AvatarURL,
		&u.OAuthToken, &u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (s *userStore) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE google_id = $1`, googleID)
	return scanUser(row)
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO users (id, google_id, email, name, avatar_url, oauth_token, refresh_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		user.ID, user.GoogleID, user.Email, user.Name, user.AvatarURL,
		user.OAuthToken, user.RefreshToken)
	return row.Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE users
		SET email = $2, name = $3, avatar_url = $4, oauth_token = $5,
		    refresh_token = $6, updated_at = now()
		WHERE id = $1`,
		user.ID, user.Email, user.Name, user.AvatarURL,
		user.OAuthToken, user.RefreshToken)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
