package service

import (
	"errors"
	"fmt"
)

// Resource sentinels. Ownership failures surface as the same not-found error
// as true absence so callers cannot probe other tenants' data.
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrSupplierNotFound  = errors.New("supplier not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrUserNotFound      = errors.New("user not found")
)

var (
	// ErrInvalidInput is the catch-all for request payloads that fail
	// validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrWorkspaceNotEmpty blocks deleting a workspace that still holds
	// suppliers or invoices.
	ErrWorkspaceNotEmpty = errors.New("workspace still contains suppliers or invoices")

	// ErrInvalidCode means the OAuth authorization code was rejected.
	ErrInvalidCode = errors.New("invalid authorization code")

	// ErrInvalidToken means the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrGmailNotAuthorized means the user has no stored refresh token.
	ErrGmailNotAuthorized = errors.New("gmail access not authorized")

	// ErrExtraction wraps failures to get usable text out of a document.
	ErrExtraction = errors.New("text extraction failed")

	// ErrAIExtraction wraps LLM transport or parse failures. Retrying later
	// may succeed.
	ErrAIExtraction = errors.New("invoice field extraction failed")

	// ErrSupplierMatch means no workspace supplier has the extracted email.
	ErrSupplierMatch = errors.New("no supplier matches the extracted email")

	// ErrInvalidPeriod means end precedes start.
	ErrInvalidPeriod = errors.New("billing period end precedes start")

	// ErrEmptyPeriod blocks generating a consolidated invoice with no items.
	ErrEmptyPeriod = errors.New("no invoices in the billing period")

	// ErrQueryTooShort rejects search queries under two characters.
	ErrQueryTooShort = errors.New("search query must be at least 2 characters")
)

// FileTypeError rejects an upload with an unsupported extension.
type FileTypeError struct {
	Extension string
}

func (e *FileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q", e.Extension)
}

// FileSizeError rejects an upload over the size limit.
type FileSizeError struct {
	Size  int64
	Limit int64
}

func (e *FileSizeError) Error() string {
	return fmt.Sprintf("file size %d exceeds limit of %d bytes", e.Size, e.Limit)
}
