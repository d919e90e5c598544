package model

import (
	"fmt"
	"time"
)

// DocumentStatus is the review state of an ingested document. Pending is the
// only non-terminal state: a document resolves exactly once, to Processed or
// Rejected, and never transitions again.
type DocumentStatus string

const (
	StatusPending   DocumentStatus = "pending"
	StatusProcessed DocumentStatus = "processed"
	StatusRejected  DocumentStatus = "rejected"
)

// ParseDocumentStatus validates a status string from the API or the database.
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch DocumentStatus(s) {
	case StatusPending, StatusProcessed, StatusRejected:
		return DocumentStatus(s), nil
	}
	return "", fmt.Errorf("unknown document status %q", s)
}

// Terminal reports whether no further transition is allowed from this status.
func (s DocumentStatus) Terminal() bool {
	return s == StatusProcessed || s == StatusRejected
}

// CanResolveTo reports whether a transition from s to target is legal.
func (s DocumentStatus) CanResolveTo(target DocumentStatus) bool {
	return s == StatusPending && target.Terminal()
}

// InvalidStateError reports a transition attempted from a terminal status.
type InvalidStateError struct {
	Status DocumentStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("document already %s", e.Status)
}

type PendingDocument struct {
	ID          int64          `json:"id"`
	WorkspaceID int64          `json:"workspace_id"`
	BlobKey     string         `json:"blob_key"`
	Filename    string         `json:"filename"`
	Status      DocumentStatus `json:"status"`
	// GmailMessageID is set only for documents ingested by inbox sync.
	GmailMessageID *string    `json:"gmail_message_id,omitempty"`
	UploadedAt     time.Time  `json:"uploaded_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}
