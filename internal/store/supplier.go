package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"propbill.app/server/internal/model"
)

type supplierStore struct {
	q Querier
}

const supplierColumns = `id, workspace_id, name, email, markup_percentage, created_at, updated_at`

func scanSupplier(row pgx.Row) (*model.Supplier, error) {
	var sup model.Supplier
	err := row.Scan(&sup.ID, &sup.WorkspaceID, &sup.Name, &sup.Email,
		&sup.MarkupPercentage, &sup.CreatedAt, &sup.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sup, nil
}

func collectSuppliers(rows pgx.Rows) ([]model.Supplier, error) {
	defer rows.Close()
	result := make([]model.Supplier, 0)
	for rows.Next() {
		var sup model.Supplier
		if err := rows.Scan(&sup.ID, &sup.WorkspaceID, &sup.Name, &sup.Email,
			&sup.MarkupPercentage, &sup.CreatedAt, &sup.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, sup)
	}
	return result, rows.Err()
}

func (s *supplierStore) GetByID(ctx context.Context, id int64) (*model.Supplier, error) {
	row := s.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	return scanSupplier(row)
}

func (s *supplierStore) Create(ctx context.Context, supplier *model.Supplier) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO suppliers (id, workspace_id, name, email, markup_percentage)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		supplier.ID, supplier.WorkspaceID, supplier.Name, supplier.Email,
		supplier.MarkupPercentage)
	return row.Scan(&supplier.CreatedAt, &supplier.UpdatedAt)
}

func (s *supplierStore) Update(ctx context.Context, supplier *model.Supplier) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE suppliers
		SET name = $2, email = $3, markup_percentage = $4, updated_at = now()
		WHERE id = $1`,
		supplier.ID, supplier.Name, supplier.Email, supplier.MarkupPercentage)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *supplierStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *supplierStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Supplier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE workspace_id = $1
		ORDER BY name`, workspaceID)
	if err != nil {
		return nil, err
	}
	return collectSuppliers(rows)
}

func (s *supplierStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error) {
	var count int64
	err := s.q.QueryRow(ctx,
		`SELECT count(*) FROM suppliers WHERE workspace_id = $1`, workspaceID).Scan(&count)
	return count, err
}

func (s *supplierStore) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Supplier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+supplierColumns+`
		FROM suppliers
		WHERE workspace_id = $1
		  AND (name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		ORDER BY name
		LIMIT $3`, workspaceID, query, limit)
	if err != nil {
		return nil, err
	}
	return collectSuppliers(rows)
}
