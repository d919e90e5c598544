package dto

import (
	"time"

	"propbill.app/server/internal/model"
)

type DocumentResponse struct {
	ID             int64      `json:"id,string"`
	WorkspaceID    int64      `json:"workspace_id,string"`
	Filename       string     `json:"filename"`
	Status         string     `json:"status"`
	GmailMessageID *string    `json:"gmail_message_id,omitempty"`
	UploadedAt     time.Time  `json:"uploaded_at"`
	ProcessedAt    *time.Time `json:"processed_at,omitempty"`
}

func ToDocumentResponse(doc *model.PendingDocument) *DocumentResponse {
	return &DocumentResponse{
		ID:             doc.ID,
		WorkspaceID:    doc.WorkspaceID,
		Filename:       doc.Filename,
		Status:         string(doc.Status),
		GmailMessageID: doc.GmailMessageID,
		UploadedAt:     doc.UploadedAt,
		ProcessedAt:    doc.ProcessedAt,
	}
}

func ToDocumentResponses(list []model.PendingDocument) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(list))
	for i := range list {
		out = append(out, *ToDocumentResponse(&list[i]))
	}
	return out
}

// CreateInvoiceManualRequest derives an invoice from operator-entered fields
// when automatic extraction cannot.
type CreateInvoiceManualRequest struct {
	SupplierID    int64   `json:"supplier_id,string" binding:"required"`
	OriginalTotal float64 `json:"original_total" binding:"required,gt=0"`
	// InvoiceDate is YYYY-MM-DD when present.
	InvoiceDate *string `json:"invoice_date,omitempty"`
}
