package store

import (
	"context"
	"errors"
	"time"

	"propbill.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
}

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	Update(ctx context.Context, ws *model.Workspace) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Workspace, error)
}

// SupplierStore defines the contract for supplier data access
type SupplierStore interface {
	GetByID(ctx context.Context, id int64) (*model.Supplier, error)
	Create(ctx context.Context, supplier *model.Supplier) error
	Update(ctx context.Context, supplier *model.Supplier) error
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Supplier, error)
	CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error)
	Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Supplier, error)
}

// DocumentStore defines the contract for pending document data access
type DocumentStore interface {
	GetByID(ctx context.Context, id int64) (*model.PendingDocument, error)
	Create(ctx context.Context, doc *model.PendingDocument) error
	ListByWorkspace(ctx context.Context, workspaceID int64, status *model.DocumentStatus) ([]model.PendingDocument, error)
	// Resolve atomically moves a pending document to a terminal status.
	// It reports false when the document was not pending at update time.
	Resolve(ctx context.Context, id int64, target model.DocumentStatus, at time.Time) (bool, error)
	Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.PendingDocument, error)
}

// InvoiceStore defines the contract for invoice data access
type InvoiceStore interface {
	GetByID(ctx context.Context, id int64) (*model.InvoiceWithSupplier, error)
	Create(ctx context.Context, inv *model.Invoice) error
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.InvoiceWithSupplier, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]model.InvoiceWithSupplier, error)
	ListForPeriod(ctx context.Context, workspaceID int64, from, to time.Time) ([]model.InvoiceWithSupplier, error)
	CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error)
	DeleteBySupplier(ctx context.Context, supplierID int64) (int64, error)
	Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.InvoiceWithSupplier, error)
}

// ProcessedEmailStore defines the contract for inbox sync dedup records
type ProcessedEmailStore interface {
	Exists(ctx context.Context, workspaceID int64, gmailMessageID string) (bool, error)
	Create(ctx context.Context, rec *model.ProcessedEmail) error
}
