package model

import "time"

// Invoice is the terminal product of document derivation. Its workspace is
// always its supplier's workspace.
type Invoice struct {
	ID            int64      `json:"id"`
	SupplierID    int64      `json:"supplier_id"`
	WorkspaceID   int64      `json:"workspace_id"`
	OriginalTotal float64    `json:"original_total"`
	MarkupTotal   float64    `json:"markup_total"`
	BlobKey       string     `json:"blob_key"`
	InvoiceDate   *time.Time `json:"invoice_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// InvoiceWithSupplier carries the joined supplier row for detail responses.
type InvoiceWithSupplier struct {
	Invoice
	Supplier Supplier `json:"supplier"`
}
