package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"propbill.app/server/common/id"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/store"
)

const defaultWorkspaceName = "Workspace 1"

type WorkspaceService interface {
	List(ctx context.Context, userID int64) ([]model.Workspace, error)
	Get(ctx context.Context, workspaceID, userID int64) (*model.Workspace, error)
	Create(ctx context.Context, userID int64, name string) (*model.Workspace, error)
	Rename(ctx context.Context, workspaceID, userID int64, name string) (*model.Workspace, error)
	Delete(ctx context.Context, workspaceID, userID int64) error
}

type workspaceService struct {
	workspaceStore store.WorkspaceStore
	supplierStore  store.SupplierStore
	invoiceStore   store.InvoiceStore
}

func NewWorkspaceService(
	workspaceStore store.WorkspaceStore,
	supplierStore store.SupplierStore,
	invoiceStore store.InvoiceStore,
) WorkspaceService {
	return &workspaceService{
		workspaceStore: workspaceStore,
		supplierStore:  supplierStore,
		invoiceStore:   invoiceStore,
	}
}

// resolveOwned loads a workspace and verifies the caller owns it. Foreign
// workspaces look identical to missing ones.
func resolveOwned(ctx context.Context, ws store.WorkspaceStore, workspaceID, userID int64) (*model.Workspace, error) {
	workspace, err := ws.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	if workspace.UserID != userID {
		return nil, ErrWorkspaceNotFound
	}
	return workspace, nil
}

func (s *workspaceService) List(ctx context.Context, userID int64) ([]model.Workspace, error) {
	return s.workspaceStore.ListByUser(ctx, userID)
}

func (s *workspaceService) Get(ctx context.Context, workspaceID, userID int64) (*model.Workspace, error) {
	return resolveOwned(ctx, s.workspaceStore, workspaceID, userID)
}

func (s *workspaceService) Create(ctx context.Context, userID int64, name string) (*model.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultWorkspaceName
	}

	workspace := &model.Workspace{
		ID:     id.New(),
		UserID: userID,
		Name:   name,
	}
	if err := s.workspaceStore.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return workspace, nil
}

func (s *workspaceService) Rename(ctx context.Context, workspaceID, userID int64, name string) (*model.Workspace, error) {
	workspace, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultWorkspaceName
	}

	workspace.Name = name
	if err := s.workspaceStore.Update(ctx, workspace); err != nil {
		return nil, fmt.Errorf("renaming workspace: %w", err)
	}
	return workspace, nil
}

func (s *workspaceService) Delete(ctx context.Context, workspaceID, userID int64) error {
	if _, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID); err != nil {
		return err
	}

	suppliers, err := s.supplierStore.CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("counting suppliers: %w", err)
	}
	invoices, err := s.invoiceStore.CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return fmt.Errorf("counting invoices: %w", err)
	}
	if suppliers > 0 || invoices > 0 {
		return ErrWorkspaceNotEmpty
	}

	if err := s.workspaceStore.Delete(ctx, workspaceID); err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}
	return nil
}
