package model

import "time"

type Supplier struct {
	ID          int64   `json:"id"`
	WorkspaceID int64   `json:"workspace_id"`
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	// MarkupPercentage is the multiplicative surcharge applied when an
	// invoice is derived from this supplier's documents. Always >= 0.
	MarkupPercentage float64   `json:"markup_percentage"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MarkupTotal applies the supplier's markup to a pre-markup amount.
func (s *Supplier) MarkupTotal(originalTotal float64) float64 {
	return originalTotal * (1 + s.MarkupPercentage/100)
}
