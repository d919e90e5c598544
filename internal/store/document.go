package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"propbill.app/server/internal/model"
)

type documentStore struct {
	q Querier
}

const documentColumns = `id, workspace_id, blob_key, filename, status, gmail_message_id, uploaded_at, processed_at`

func scanDocument(row pgx.Row) (*model.PendingDocument, error) {
	var d model.PendingDocument
	err := row.Scan(&d.ID, &d.WorkspaceID, &d.BlobKey, &d.Filename, &d.Status,
		&d.GmailMessageID, &d.UploadedAt, &d.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func collectDocuments(rows pgx.Rows) ([]model.PendingDocument, error) {
	defer rows.Close()
	result := make([]model.PendingDocument, 0)
	for rows.Next() {
		var d model.PendingDocument
		if err := rows.Scan(&d.ID, &d.WorkspaceID, &d.BlobKey, &d.Filename, &d.Status,
			&d.GmailMessageID, &d.UploadedAt, &d.ProcessedAt); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (s *documentStore) GetByID(ctx context.Context, id int64) (*model.PendingDocument, error) {
	row := s.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM pending_documents WHERE id = $1`, id)
	return scanDocument(row)
}

func (s *documentStore) Create(ctx context.Context, doc *model.PendingDocument) error {
	if doc.Status == "" {
		doc.Status = model.StatusPending
	}
	row := s.q.QueryRow(ctx, `
		INSERT INTO pending_documents (id, workspace_id, blob_key, filename, status, gmail_message_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING uploaded_at`,
		doc.ID, doc.WorkspaceID, doc.BlobKey, doc.Filename, doc.Status, doc.GmailMessageID)
	return row.Scan(&doc.UploadedAt)
}

func (s *documentStore) ListByWorkspace(ctx context.Context, workspaceID int64, status *model.DocumentStatus) ([]model.PendingDocument, error) {
	if status != nil {
		rows, err := s.q.Query(ctx, `
			SELECT `+documentColumns+`
			FROM pending_documents
			WHERE workspace_id = $1 AND status = $2
			ORDER BY uploaded_at DESC`, workspaceID, *status)
		if err != nil {
			return nil, err
		}
		return collectDocuments(rows)
	}

	rows, err := s.q.Query(ctx, `
		SELECT `+documentColumns+`
		FROM pending_documents
		WHERE workspace_id = $1
		ORDER BY uploaded_at DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}

// Resolve uses a compare-and-set on status so concurrent resolutions of the
// same document cannot both succeed.
func (s *documentStore) Resolve(ctx context.Context, id int64, target model.DocumentStatus, at time.Time) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE pending_documents
		SET status = $2, processed_at = $3
		WHERE id = $1 AND status = 'pending'`,
		id, target, at)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *documentStore) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.PendingDocument, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+documentColumns+`
		FROM pending_documents
		WHERE workspace_id = $1 AND filename ILIKE '%' || $2 || '%'
		ORDER BY uploaded_at DESC
		LIMIT $3`, workspaceID, query, limit)
	if err != nil {
		return nil, err
	}
	return collectDocuments(rows)
}
