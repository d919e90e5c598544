package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"propbill.app/server/common/id"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/store"
)

// ErrInvalidSupplier rejects supplier input that fails validation.
var ErrInvalidSupplier = errors.New("invalid supplier")

type SupplierService interface {
	List(ctx context.Context, workspaceID, userID int64) ([]model.Supplier, error)
	Get(ctx context.Context, supplierID, userID int64) (*model.Supplier, error)
	Create(ctx context.Context, workspaceID, userID int64, name string, email *string, markupPercentage float64) (*model.Supplier, error)
	Update(ctx context.Context, supplierID, userID int64, name string, email *string, markupPercentage float64) (*model.Supplier, error)
	// Delete removes a supplier and all its invoices, returning how many
	// invoices went with it.
	Delete(ctx context.Context, supplierID, userID int64) (int64, error)
	ListInvoices(ctx context.Context, supplierID, userID int64) ([]model.InvoiceWithSupplier, error)
}

type supplierService struct {
	workspaceStore store.WorkspaceStore
	supplierStore  store.SupplierStore
	invoiceStore   store.InvoiceStore
	txRunner       TxRunner
}

func NewSupplierService(
	workspaceStore store.WorkspaceStore,
	supplierStore store.SupplierStore,
	invoiceStore store.InvoiceStore,
	txRunner TxRunner,
) SupplierService {
	return &supplierService{
		workspaceStore: workspaceStore,
		supplierStore:  supplierStore,
		invoiceStore:   invoiceStore,
		txRunner:       txRunner,
	}
}

// resolveOwnedSupplier loads a supplier and verifies the caller owns its
// workspace.
func (s *supplierService) resolveOwnedSupplier(ctx context.Context, supplierID, userID int64) (*model.Supplier, error) {
	supplier, err := s.supplierStore.GetByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("loading supplier: %w", err)
	}
	if _, err := resolveOwned(ctx, s.workspaceStore, supplier.WorkspaceID, userID); err != nil {
		if errors.Is(err, ErrWorkspaceNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return supplier, nil
}

func validateSupplierInput(name string, markupPercentage float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSupplier)
	}
	if markupPercentage < 0 {
		return fmt.Errorf("%w: markup percentage must not be negative", ErrInvalidSupplier)
	}
	return nil
}

func (s *supplierService) List(ctx context.Context, workspaceID, userID int64) ([]model.Supplier, error) {
	if _, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.supplierStore.ListByWorkspace(ctx, workspaceID)
}

func (s *supplierService) Get(ctx context.Context, supplierID, userID int64) (*model.Supplier, error) {
	return s.resolveOwnedSupplier(ctx, supplierID, userID)
}

func (s *supplierService) Create(ctx context.Context, workspaceID, userID int64, name string, email *string, markupPercentage float64) (*model.Supplier, error) {
	if _, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID); err != nil {
		return nil, err
	}
	if err := validateSupplierInput(name, markupPercentage); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{
		ID:               id.New(),
		WorkspaceID:      workspaceID,
		Name:             strings.TrimSpace(name),
		Email:            email,
		MarkupPercentage: markupPercentage,
	}
	if err := s.supplierStore.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("creating supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, supplierID, userID int64, name string, email *string, markupPercentage float64) (*model.Supplier, error) {
	supplier, err := s.resolveOwnedSupplier(ctx, supplierID, userID)
	if err != nil {
		return nil, err
	}
	if err := validateSupplierInput(name, markupPercentage); err != nil {
		return nil, err
	}

	supplier.Name = strings.TrimSpace(name)
	supplier.Email = email
	supplier.MarkupPercentage = markupPercentage
	if err := s.supplierStore.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("updating supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) Delete(ctx context.Context, supplierID, userID int64) (int64, error) {
	if _, err := s.resolveOwnedSupplier(ctx, supplierID, userID); err != nil {
		return 0, err
	}

	var invoicesDeleted int64
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		n, err := stores.Invoices().DeleteBySupplier(ctx, supplierID)
		if err != nil {
			return fmt.Errorf("deleting supplier invoices: %w", err)
		}
		invoicesDeleted = n

		if err := stores.Suppliers().Delete(ctx, supplierID); err != nil {
			return fmt.Errorf("deleting supplier: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "supplier deleted",
		"supplier_id", supplierID,
		"invoices_deleted", invoicesDeleted)
	return invoicesDeleted, nil
}

func (s *supplierService) ListInvoices(ctx context.Context, supplierID, userID int64) ([]model.InvoiceWithSupplier, error) {
	if _, err := s.resolveOwnedSupplier(ctx, supplierID, userID); err != nil {
		return nil, err
	}

	invoices, err := s.invoiceStore.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("listing supplier invoices: %w", err)
	}
	return invoices, nil
}
