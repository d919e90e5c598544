package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"propbill.app/server/internal/model"
	"propbill.app/server/internal/store"
)

const searchLimit = 10

// SupplierHit is a supplier search match.
type SupplierHit struct {
	Supplier   model.Supplier `json:"supplier"`
	MatchField string         `json:"match_field"`
}

// InvoiceHit is an invoice search match.
type InvoiceHit struct {
	Invoice    model.InvoiceWithSupplier `json:"invoice"`
	MatchField string                    `json:"match_field"`
}

// DocumentHit is a document search match.
type DocumentHit struct {
	Document   model.PendingDocument `json:"document"`
	MatchField string                `json:"match_field"`
}

// SearchResults groups matches by category, at most 10 per category.
type SearchResults struct {
	Suppliers []SupplierHit `json:"suppliers"`
	Invoices  []InvoiceHit  `json:"invoices"`
	Documents []DocumentHit `json:"documents"`
	Total     int           `json:"total"`
}

type SearchService interface {
	Search(ctx context.Context, workspaceID, userID int64, query string) (*SearchResults, error)
}

type searchService struct {
	workspaceStore store.WorkspaceStore
	supplierStore  store.SupplierStore
	documentStore  store.DocumentStore
	invoiceStore   store.InvoiceStore
}

func NewSearchService(
	workspaceStore store.WorkspaceStore,
	supplierStore store.SupplierStore,
	documentStore store.DocumentStore,
	invoiceStore store.InvoiceStore,
) SearchService {
	return &searchService{
		workspaceStore: workspaceStore,
		supplierStore:  supplierStore,
		documentStore:  documentStore,
		invoiceStore:   invoiceStore,
	}
}

func (s *searchService) Search(ctx context.Context, workspaceID, userID int64, query string) (*SearchResults, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}
	if _, err := resolveOwned(ctx, s.workspaceStore, workspaceID, userID); err != nil {
		return nil, err
	}

	results := &SearchResults{
		Suppliers: []SupplierHit{},
		Invoices:  []InvoiceHit{},
		Documents: []DocumentHit{},
	}
	lower := strings.ToLower(query)

	suppliers, err := s.supplierStore.Search(ctx, workspaceID, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching suppliers: %w", err)
	}
	for _, sup := range suppliers {
		field := "email"
		if strings.Contains(strings.ToLower(sup.Name), lower) {
			field = "name"
		}
		results.Suppliers = append(results.Suppliers, SupplierHit{Supplier: sup, MatchField: field})
	}

	invoices, err := s.invoiceStore.Search(ctx, workspaceID, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching invoices: %w", err)
	}
	for _, inv := range invoices {
		results.Invoices = append(results.Invoices, InvoiceHit{
			Invoice:    inv,
			MatchField: invoiceMatchField(&inv, lower),
		})
	}

	documents, err := s.documentStore.Search(ctx, workspaceID, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	for _, doc := range documents {
		results.Documents = append(results.Documents, DocumentHit{Document: doc, MatchField: "filename"})
	}

	results.Total = len(results.Suppliers) + len(results.Invoices) + len(results.Documents)
	return results, nil
}

func invoiceMatchField(inv *model.InvoiceWithSupplier, lowerQuery string) string {
	if strings.Contains(strings.ToLower(inv.Supplier.Name), lowerQuery) {
		return "supplier_name"
	}
	original := strconv.FormatFloat(inv.OriginalTotal, 'f', -1, 64)
	markup := strconv.FormatFloat(inv.MarkupTotal, 'f', -1, 64)
	if strings.Contains(original, lowerQuery) || strings.Contains(markup, lowerQuery) {
		return "amount"
	}
	if inv.InvoiceDate != nil && strings.Contains(inv.InvoiceDate.Format("2006-01-02"), lowerQuery) {
		return "date"
	}
	return "supplier_name"
}
