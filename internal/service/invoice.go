package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"propbill.app/server/internal/blob"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/store"
)

type InvoiceService interface {
	List(ctx context.Context, workspaceID, userID int64, sortDesc bool) ([]model.InvoiceWithSupplier, error)
	Get(ctx context.Context, invoiceID, userID int64) (*model.InvoiceWithSupplier, error)
	// Download streams the source document. Returns data, download filename
	// and content type.
	Download(ctx context.Context, invoiceID, userID int64) ([]byte, string, string, error)
	// DownloadURL returns a short-lived signed URL for the source document,
	// or "" when the blob backend cannot mint one and the caller should
	// stream the bytes instead.
	DownloadURL(ctx context.Context, invoiceID, userID int64) (string, error)
	Delete(ctx context.Context, invoiceID, userID int64) error
}

const downloadURLTTL = 15 * time.Minute

type invoiceService struct {
	workspaceStore store.WorkspaceStore
	invoiceStore   store.InvoiceStore
	blobs          blob.Store
}

func NewInvoiceService(
	workspaceStore store.WorkspaceStore,
	invoiceStore store.InvoiceStore,
	blobs blob.Store,
) InvoiceService {
	return &invoiceService{
		workspaceStore: workspaceStore,
		invoiceStore:   invoiceStore,
		blobs:          blobs,
	}
}

func (s *invoiceService) resolveOwnedInvoice(ctx context.Context, invoiceID, userID int64) (*model.InvoiceWithSupplier, error) {
	invoice, err := s.invoiceStore.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("loading invoice: %w", err)
	}
	if _, err := resolveOwned(ctx, s.workspaceStore, invoice.WorkspaceID, userID); err != nil {
		if errors.Is(err, ErrWorkspaceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context, workspaceID, userID int64, sortDesc bool) ([]model.InvoiceWithSupplier, error) {
	if _, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceStore.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}

	// Sort on invoice_date, undated invoices falling back to created_at.
	sort.SliceStable(invoices, func(i, j int) bool {
		ti, tj := invoices[i].CreatedAt, invoices[j].CreatedAt
		if invoices[i].InvoiceDate != nil {
			ti = *invoices[i].InvoiceDate
		}
		if invoices[j].InvoiceDate != nil {
			tj = *invoices[j].InvoiceDate
		}
		if sortDesc {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
	return invoices, nil
}

func (s *invoiceService) Get(ctx context.Context, invoiceID, userID int64) (*model.InvoiceWithSupplier, error) {
	return s.resolveOwnedInvoice(ctx, invoiceID, userID)
}

func (s *invoiceService) Download(ctx context.Context, invoiceID, userID int64) ([]byte, string, string, error) {
	invoice, err := s.resolveOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return nil, "", "", err
	}

	data, err := s.blobs.Get(ctx, invoice.BlobKey)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, "", "", ErrInvoiceNotFound
		}
		return nil, "", "", fmt.Errorf("reading invoice blob: %w", err)
	}

	ext := strings.ToLower(path.Ext(invoice.BlobKey))
	filename := fmt.Sprintf("invoice_%d%s", invoice.ID, ext)
	return data, filename, contentTypeFor(ext), nil
}

func (s *invoiceService) DownloadURL(ctx context.Context, invoiceID, userID int64) (string, error) {
	invoice, err := s.resolveOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return "", err
	}

	url, err := s.blobs.PresignGet(ctx, invoice.BlobKey, downloadURLTTL)
	if err != nil {
		if errors.Is(err, blob.ErrPresignUnsupported) {
			return "", nil
		}
		return "", fmt.Errorf("presigning invoice blob: %w", err)
	}
	return url, nil
}

func (s *invoiceService) Delete(ctx context.Context, invoiceID, userID int64) error {
	invoice, err := s.resolveOwnedInvoice(ctx, invoiceID, userID)
	if err != nil {
		return err
	}

	if err := s.invoiceStore.Delete(ctx, invoiceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvoiceNotFound
		}
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if err := s.blobs.Delete(ctx, invoice.BlobKey); err != nil {
		slog.WarnContext(ctx, "failed to delete invoice blob",
			"invoice_id", invoiceID,
			"blob_key", invoice.BlobKey,
			"error", err)
	}
	return nil
}
