package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"propbill.app/server/internal/model"
)

type workspaceStore struct {
	q Querier
}

func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var w model.Workspace
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	row := s.q.QueryRow(ctx,
		`SELECT id, user_id, name, created_at FROM workspaces WHERE id = $1`, id)
	return scanWorkspace(row)
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO workspaces (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		ws.ID, ws.UserID, ws.Name)
	return row.Scan(&ws.CreatedAt)
}

func (s *workspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	tag, err := s.q.Exec(ctx,
		`UPDATE workspaces SET name = $2 WHERE id = $1`, ws.ID, ws.Name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *workspaceStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *workspaceStore) ListByUser(ctx context.Context, userID int64) ([]model.Workspace, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, user_id, name, created_at
		FROM workspaces
		WHERE user_id = $1
		ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Workspace, 0)
	for rows.Next() {
		var w model.Workspace
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}
