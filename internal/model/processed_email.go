package model

import "time"

// ProcessedEmail marks a mailbox message as already ingested so inbox sync
// stays idempotent across overlapping windows.
type ProcessedEmail struct {
	GmailMessageID string    `json:"gmail_message_id"`
	WorkspaceID    int64     `json:"workspace_id"`
	ProcessedAt    time.Time `json:"processed_at"`
}
