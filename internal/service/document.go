package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"propbill.app/server/common/id"
	"propbill.app/server/common/logger"
	"propbill.app/server/internal/ai"
	"propbill.app/server/internal/blob"
	"propbill.app/server/internal/extract"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/store"
)

// MaxUploadSize caps document uploads at 10 MiB.
const MaxUploadSize = 10 << 20

var allowedExtensions = map[string]bool{
	".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
	".webp": true, ".doc": true, ".docx": true,
}

type DocumentService interface {
	Upload(ctx context.Context, workspaceID, userID int64, filename string, data []byte, gmailMessageID *string) (*model.PendingDocument, error)
	List(ctx context.Context, workspaceID, userID int64, status *model.DocumentStatus) ([]model.PendingDocument, error)
	Get(ctx context.Context, documentID, userID int64) (*model.PendingDocument, error)
	Download(ctx context.Context, documentID, userID int64) ([]byte, string, error)
	// Process runs the derivation pipeline: extract text, extract fields,
	// validate, match a supplier by email, then atomically create the
	// invoice and mark the document processed.
	Process(ctx context.Context, documentID, userID int64) (*model.Invoice, error)
	// CreateInvoiceManual derives an invoice from operator-supplied fields,
	// bypassing extraction.
	CreateInvoiceManual(ctx context.Context, documentID, supplierID, userID int64, originalTotal float64, invoiceDate *time.Time) (*model.Invoice, error)
	Reject(ctx context.Context, documentID, userID int64) (*model.PendingDocument, error)
}

type documentService struct {
	workspaceStore store.WorkspaceStore
	documentStore  store.DocumentStore
	supplierStore  store.SupplierStore
	blobs          blob.Store
	extractor      extract.Extractor
	fields         ai.FieldExtractor
	txRunner       TxRunner
	now            func() time.Time
}

func NewDocumentService(
	workspaceStore store.WorkspaceStore,
	documentStore store.DocumentStore,
	supplierStore store.SupplierStore,
	blobs blob.Store,
	extractor extract.Extractor,
	fields ai.FieldExtractor,
	txRunner TxRunner,
) DocumentService {
	return &documentService{
		workspaceStore: workspaceStore,
		documentStore:  documentStore,
		supplierStore:  supplierStore,
		blobs:          blobs,
		extractor:      extractor,
		fields:         fields,
		txRunner:       txRunner,
		now:            time.Now,
	}
}

func (s *documentService) Upload(ctx context.Context, workspaceID, userID int64, filename string, data []byte, gmailMessageID *string) (*model.PendingDocument, error) {
	if _, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID); err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, &FileTypeError{Extension: ext}
	}
	if int64(len(data)) > MaxUploadSize {
		return nil, &FileSizeError{Size: int64(len(data)), Limit: MaxUploadSize}
	}

	key := blob.NewKey(workspaceID, filename)
	if err := s.blobs.Put(ctx, key, data, contentTypeFor(ext)); err != nil {
		return nil, fmt.Errorf("storing document blob: %w", err)
	}

	doc := &model.PendingDocument{
		ID:             id.New(),
		WorkspaceID:    workspaceID,
		BlobKey:        key,
		Filename:       path.Base(filename),
		Status:         model.StatusPending,
		GmailMessageID: gmailMessageID,
	}
	if err := s.documentStore.Create(ctx, doc); err != nil {
		// Row failed; the orphaned blob is cleaned up best-effort.
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to clean up orphaned blob", "blob_key", key, "error", delErr)
		}
		return nil, fmt.Errorf("creating document record: %w", err)
	}

	slog.InfoContext(ctx, "document uploaded",
		"document_id", doc.ID,
		"workspace_id", workspaceID,
		"filename", doc.Filename,
		"size_bytes", len(data))
	return doc, nil
}

func (s *documentService) List(ctx context.Context, workspaceID, userID int64, status *model.DocumentStatus) ([]model.PendingDocument, error) {
	if _, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.documentStore.ListByWorkspace(ctx, workspaceID, status)
}

// resolveOwnedDocument loads a document and verifies the caller owns its
// workspace.
func (s *documentService) resolveOwnedDocument(ctx context.Context, documentID, userID int64) (*model.PendingDocument, error) {
	doc, err := s.documentStore.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if _, err := resolveOwned(ctx, s.workspaceStore, doc.WorkspaceID, userID); err != nil {
		if errors.Is(err, ErrWorkspaceNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, documentID, userID int64) (*model.PendingDocument, error) {
	return s.resolveOwnedDocument(ctx, documentID, userID)
}

func (s *documentService) Download(ctx context.Context, documentID, userID int64) ([]byte, string, error) {
	doc, err := s.resolveOwnedDocument(ctx, documentID, userID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, "", ErrDocumentNotFound
		}
		return nil, "", fmt.Errorf("reading document blob: %w", err)
	}
	return data, doc.Filename, nil
}

func (s *documentService) Process(ctx context.Context, documentID, userID int64) (*model.Invoice, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DocumentID: logger.Ptr(documentID),
		Component:  "propbill.derive",
	})

	doc, err := s.resolveOwnedDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	if doc.Status.Terminal() {
		return nil, &model.InvalidStateError{Status: doc.Status}
	}

	data, err := s.blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		return nil, fmt.Errorf("reading document blob: %w", err)
	}

	text, err := s.extractor.Text(ctx, doc.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	extracted, err := s.fields.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIExtraction, err)
	}

	validated, err := ai.Validate(extracted)
	if err != nil {
		return nil, err
	}

	supplier, err := s.matchSupplier(ctx, doc.WorkspaceID, validated.SupplierEmail)
	if err != nil {
		return nil, err
	}

	return s.deriveInvoice(ctx, doc, supplier, validated.Total, validated.InvoiceDate)
}

// matchSupplier finds the workspace supplier with the extracted email.
// The comparison is exact, matching intake behavior elsewhere.
func (s *documentService) matchSupplier(ctx context.Context, workspaceID int64, email string) (*model.Supplier, error) {
	suppliers, err := s.supplierStore.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	for i := range suppliers {
		if suppliers[i].Email != nil && *suppliers[i].Email == email {
			return &suppliers[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSupplierMatch, email)
}

func (s *documentService) CreateInvoiceManual(ctx context.Context, documentID, supplierID, userID int64, originalTotal float64, invoiceDate *time.Time) (*model.Invoice, error) {
	doc, err := s.resolveOwnedDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	if doc.Status.Terminal() {
		return nil, &model.InvalidStateError{Status: doc.Status}
	}

	supplier, err := s.supplierStore.GetByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("loading supplier: %w", err)
	}
	if supplier.WorkspaceID != doc.WorkspaceID {
		// A supplier the caller cannot see is indistinguishable from a
		// missing one; a supplier from another of the caller's own
		// workspaces is a bad request.
		if _, err := resolveOwned(ctx, s.workspaceStore, supplier.WorkspaceID, userID); err != nil {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("%w: supplier belongs to a different workspace", ErrInvalidInput)
	}

	if originalTotal <= 0 {
		return nil, fmt.Errorf("%w: total must be positive", ErrInvalidInput)
	}

	return s.deriveInvoice(ctx, doc, supplier, originalTotal, invoiceDate)
}

// deriveInvoice atomically creates the invoice and resolves the document to
// processed. The compare-and-set inside the transaction makes concurrent
// derivations of the same document produce exactly one invoice.
func (s *documentService) deriveInvoice(ctx context.Context, doc *model.PendingDocument, supplier *model.Supplier, originalTotal float64, invoiceDate *time.Time) (*model.Invoice, error) {
	invoice := &model.Invoice{
		ID:            id.New(),
		SupplierID:    supplier.ID,
		WorkspaceID:   doc.WorkspaceID,
		OriginalTotal: originalTotal,
		MarkupTotal:   supplier.MarkupTotal(originalTotal),
		BlobKey:       doc.BlobKey,
		InvoiceDate:   invoiceDate,
	}

	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		ok, err := stores.Documents().Resolve(ctx, doc.ID, model.StatusProcessed, s.now())
		if err != nil {
			return fmt.Errorf("resolving document: %w", err)
		}
		if !ok {
			current, err := stores.Documents().GetByID(ctx, doc.ID)
			if err != nil {
				return fmt.Errorf("re-reading document: %w", err)
			}
			return &model.InvalidStateError{Status: current.Status}
		}

		if err := stores.Invoices().Create(ctx, invoice); err != nil {
			return fmt.Errorf("creating invoice: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "invoice derived",
		"invoice_id", invoice.ID,
		"document_id", doc.ID,
		"supplier_id", supplier.ID,
		"original_total", invoice.OriginalTotal,
		"markup_total", invoice.MarkupTotal)
	return invoice, nil
}

func (s *documentService) Reject(ctx context.Context, documentID, userID int64) (*model.PendingDocument, error) {
	doc, err := s.resolveOwnedDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}
	if doc.Status.Terminal() {
		return nil, &model.InvalidStateError{Status: doc.Status}
	}

	now := s.now()
	ok, err := s.documentStore.Resolve(ctx, documentID, model.StatusRejected, now)
	if err != nil {
		return nil, fmt.Errorf("rejecting document: %w", err)
	}
	if !ok {
		current, err := s.documentStore.GetByID(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("re-reading document: %w", err)
		}
		return nil, &model.InvalidStateError{Status: current.Status}
	}

	// The file is no longer needed. Losing the blob is not worth failing
	// the rejection over.
	if err := s.blobs.Delete(ctx, doc.BlobKey); err != nil {
		slog.WarnContext(ctx, "failed to delete rejected document blob",
			"document_id", documentID,
			"blob_key", doc.BlobKey,
			"error", err)
	}

	doc.Status = model.StatusRejected
	doc.ProcessedAt = &now
	return doc, nil
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
