package store

import (
	"context"

	"propbill.app/server/internal/model"
)

type processedEmailStore struct {
	q Querier
}

func (s *processedEmailStore) Exists(ctx context.Context, workspaceID int64, gmailMessageID string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM processed_emails
			WHERE workspace_id = $1 AND gmail_message_id = $2
		)`, workspaceID, gmailMessageID).Scan(&exists)
	return exists, err
}

func (s *processedEmailStore) Create(ctx context.Context, rec *model.ProcessedEmail) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO processed_emails (gmail_message_id, workspace_id)
		VALUES ($1, $2)
		ON CONFLICT (gmail_message_id, workspace_id) DO UPDATE
		SET processed_at = processed_emails.processed_at
		RETURNING processed_at`,
		rec.GmailMessageID, rec.WorkspaceID)
	return row.Scan(&rec.ProcessedAt)
}
