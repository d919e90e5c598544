package dto

import (
	"time"

	"propbill.app/server/internal/model"
)

type SupplierRequest struct {
	Name             string  `json:"name" binding:"required,min=1,max=255"`
	Email            *string `json:"email,omitempty" binding:"omitempty,email"`
	MarkupPercentage float64 `json:"markup_percentage" binding:"gte=0"`
}

type SupplierResponse struct {
	ID               int64     `json:"id,string"`
	WorkspaceID      int64     `json:"workspace_id,string"`
	Name             string    `json:"name"`
	Email            *string   `json:"email,omitempty"`
	MarkupPercentage float64   `json:"markup_percentage"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ToSupplierResponse(sup *model.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:               sup.ID,
		WorkspaceID:      sup.WorkspaceID,
		Name:             sup.Name,
		Email:            sup.Email,
		MarkupPercentage: sup.MarkupPercentage,
		CreatedAt:        sup.CreatedAt,
		UpdatedAt:        sup.UpdatedAt,
	}
}

func ToSupplierResponses(list []model.Supplier) []SupplierResponse {
	out := make([]SupplierResponse, 0, len(list))
	for i := range list {
		out = append(out, *ToSupplierResponse(&list[i]))
	}
	return out
}

type DeleteSupplierResponse struct {
	Deleted         bool  `json:"deleted"`
	InvoicesDeleted int64 `json:"invoices_deleted"`
}
