package dto

import (
	"time"

	"propbill.app/server/internal/model"
)

type InvoiceResponse struct {
	ID            int64            `json:"id,string"`
	SupplierID    int64            `json:"supplier_id,string"`
	WorkspaceID   int64            `json:"workspace_id,string"`
	OriginalTotal float64          `json:"original_total"`
	MarkupTotal   float64          `json:"markup_total"`
	InvoiceDate   *time.Time       `json:"invoice_date,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	Supplier      SupplierResponse `json:"supplier"`
}

func ToInvoiceResponse(inv *model.InvoiceWithSupplier) *InvoiceResponse {
	return &InvoiceResponse{
		ID:            inv.ID,
		SupplierID:    inv.SupplierID,
		WorkspaceID:   inv.WorkspaceID,
		OriginalTotal: inv.OriginalTotal,
		MarkupTotal:   inv.MarkupTotal,
		InvoiceDate:   inv.InvoiceDate,
		CreatedAt:     inv.CreatedAt,
		Supplier:      *ToSupplierResponse(&inv.Supplier),
	}
}

// DerivedInvoiceResponse is returned right after derivation, before the
// supplier join is loaded.
type DerivedInvoiceResponse struct {
	ID            int64      `json:"id,string"`
	SupplierID    int64      `json:"supplier_id,string"`
	WorkspaceID   int64      `json:"workspace_id,string"`
	OriginalTotal float64    `json:"original_total"`
	MarkupTotal   float64    `json:"markup_total"`
	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func ToDerivedInvoiceResponse(inv *model.Invoice) *DerivedInvoiceResponse {
	return &DerivedInvoiceResponse{
		ID:            inv.ID,
		SupplierID:    inv.SupplierID,
		WorkspaceID:   inv.WorkspaceID,
		OriginalTotal: inv.OriginalTotal,
		MarkupTotal:   inv.MarkupTotal,
		InvoiceDate:   inv.InvoiceDate,
		CreatedAt:     inv.CreatedAt,
	}
}

func ToInvoiceResponses(list []model.InvoiceWithSupplier) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for i := range list {
		out = append(out, *ToInvoiceResponse(&list[i]))
	}
	return out
}
