package service

import (
	"context"
	"fmt"
	"time"

	"propbill.app/server/internal/model"
	"propbill.app/server/internal/pdfgen"
	"propbill.app/server/internal/store"
)

// ConsolidatedPreview summarizes what a consolidated invoice would contain.
type ConsolidatedPreview struct {
	InvoiceCount  int     `json:"invoice_count"`
	TotalOriginal float64 `json:"total_original"`
	TotalMarkup   float64 `json:"total_markup"`
	TotalBilled   float64 `json:"total_billed"`
}

type ConsolidatedService interface {
	Preview(ctx context.Context, workspaceID, userID int64, start, end time.Time) (*ConsolidatedPreview, error)
	// Generate renders the billing PDF for the period. Owner-billed amounts
	// are always the marked-up totals.
	Generate(ctx context.Context, workspaceID, userID int64, start, end time.Time) ([]byte, string, error)
}

type consolidatedService struct {
	workspaceStore store.WorkspaceStore
	invoiceStore   store.InvoiceStore
	now            func() time.Time
}

func NewConsolidatedService(workspaceStore store.WorkspaceStore, invoiceStore store.InvoiceStore) ConsolidatedService {
	return &consolidatedService{
		workspaceStore: workspaceStore,
		invoiceStore:   invoiceStore,
		now:            time.Now,
	}
}

func (s *consolidatedService) selectInvoices(ctx context.Context, workspaceID, userID int64, start, end time.Time) (*model.Workspace, []model.InvoiceWithSupplier, error) {
	workspace, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID)
	if err != nil {
		return nil, nil, err
	}
	if end.Before(start) {
		return nil, nil, ErrInvalidPeriod
	}

	// The range is inclusive of both endpoints; push end to end-of-day so a
	// date-only boundary still covers the whole day.
	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())

	invoices, err := s.invoiceStore.ListForPeriod(ctx, workspaceID, start, endOfDay)
	if err != nil {
		return nil, nil, fmt.Errorf("selecting invoices for period: %w", err)
	}
	return workspace, invoices, nil
}

func (s *consolidatedService) Preview(ctx context.Context, workspaceID, userID int64, start, end time.Time) (*ConsolidatedPreview, error) {
	_, invoices, err := s.selectInvoices(ctx, workspaceID, userID, start, end)
	if err != nil {
		return nil, err
	}

	preview := &ConsolidatedPreview{InvoiceCount: len(invoices)}
	for _, inv := range invoices {
		preview.TotalOriginal += inv.OriginalTotal
		preview.TotalBilled += inv.MarkupTotal
	}
	preview.TotalMarkup = preview.TotalBilled - preview.TotalOriginal
	return preview, nil
}

func (s *consolidatedService) Generate(ctx context.Context, workspaceID, userID int64, start, end time.Time) ([]byte, string, error) {
	workspace, invoices, err := s.selectInvoices(ctx, workspaceID, userID, start, end)
	if err != nil {
		return nil, "", err
	}
	if len(invoices) == 0 {
		return nil, "", ErrEmptyPeriod
	}

	items := make([]pdfgen.Item, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, pdfgen.Item{
			SupplierName: inv.Supplier.Name,
			InvoiceDate:  inv.InvoiceDate,
			Amount:       inv.MarkupTotal,
		})
	}

	now := s.now()
	number := pdfgen.NewInvoiceNumber(now)
	data, err := pdfgen.Render(&pdfgen.ConsolidatedInvoice{
		InvoiceNumber: number,
		WorkspaceName: workspace.Name,
		StartDate:     start,
		EndDate:       end,
		GeneratedAt:   now,
		Items:         items,
	})
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s.pdf", number)
	return data, filename, nil
}
