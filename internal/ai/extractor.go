// Package ai extracts structured invoice fields from document text using an
// LLM and validates the result before derivation.
package ai

import (
	"context"
	"fmt"
	"time"

	"propbill.app/server/common/llm"
)

const systemPrompt = `You are an invoice data extraction assistant. You will be given the text content of an invoice or bill. Extract the requested fields exactly as they appear in the document. If a field is not present, use null. Do not guess or invent values.`

const userPromptTemplate = `Extract the following fields from this invoice text:

- supplier_email: the email address of the company that issued the invoice
- invoice_date: the invoice date in YYYY-MM-DD format
- total_amount: the final total amount due as a number, without currency symbols

Invoice text:
---
%s
---`

// ExtractedInvoice is the model's raw answer. All fields are optional; the
// model returns null for anything it cannot find.
type ExtractedInvoice struct {
	SupplierEmail *string  `json:"supplier_email" jsonschema_description:"Email address of the issuing supplier, or null"`
	InvoiceDate   *string  `json:"invoice_date" jsonschema_description:"Invoice date as YYYY-MM-DD, or null"`
	TotalAmount   *float64 `json:"total_amount" jsonschema_description:"Final total due as a number, or null"`
}

// FieldExtractor asks the model for invoice fields.
type FieldExtractor interface {
	Extract(ctx context.Context, text string) (*ExtractedInvoice, error)
}

const (
	maxExtractAttempts = 3
	extractRetryDelay  = 2 * time.Second
)

type fieldExtractor struct {
	client     llm.Client
	maxTokens  int
	retryDelay time.Duration
}

func NewFieldExtractor(client llm.Client, maxTokens int) FieldExtractor {
	return &fieldExtractor{client: client, maxTokens: maxTokens, retryDelay: extractRetryDelay}
}

// NewDisabledFieldExtractor is used when no LLM credentials are configured.
// Every extraction fails, leaving the manual derivation path available.
func NewDisabledFieldExtractor() FieldExtractor {
	return disabledExtractor{}
}

type disabledExtractor struct{}

func (disabledExtractor) Extract(context.Context, string) (*ExtractedInvoice, error) {
	return nil, fmt.Errorf("no extraction model configured")
}

func (e *fieldExtractor) Extract(ctx context.Context, text string) (*ExtractedInvoice, error) {
	req := llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   fmt.Sprintf(userPromptTemplate, text),
		SchemaName:   "extracted_invoice",
		Schema:       llm.GenerateSchema[ExtractedInvoice](),
		MaxTokens:    e.maxTokens,
		Temperature:  llm.Temp(0),
	}

	var lastErr error
	for attempt := 1; attempt <= maxExtractAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt-1) * e.retryDelay):
			}
		}

		var result ExtractedInvoice
		_, err := e.client.Chat(ctx, req, &result)
		if err == nil {
			return &result, nil
		}
		lastErr = err
		if !llm.IsRetryable(ctx, err) {
			break
		}
	}
	return nil, fmt.Errorf("invoice field extraction: %w", lastErr)
}

// Validation failure subtypes.
const (
	ReasonMissingEmail = "missing_email"
	ReasonMissingTotal = "missing_total"
	ReasonInvalidDate  = "invalid_date"
	ReasonGeneric      = "generic"
)

// ValidationError explains why extracted fields cannot drive automatic
// derivation. Hint points the caller at the manual path.
type ValidationError struct {
	Reason string
	Hint   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("extracted fields failed validation (%s): %s", e.Reason, e.Hint)
}

// ValidatedInvoice carries fields that passed validation.
type ValidatedInvoice struct {
	SupplierEmail string
	Total         float64
	InvoiceDate   *time.Time
}

const manualHint = "review the document and create the invoice manually"

// Validate checks the extraction result: email present, total present and
// positive, date parseable when given. The date is optional.
func Validate(e *ExtractedInvoice) (*ValidatedInvoice, error) {
	if e == nil {
		return nil, &ValidationError{Reason: ReasonGeneric, Hint: manualHint}
	}

	if e.SupplierEmail == nil || *e.SupplierEmail == "" {
		return nil, &ValidationError{
			Reason: ReasonMissingEmail,
			Hint:   "no supplier email found in the document; " + manualHint,
		}
	}

	if e.TotalAmount == nil || *e.TotalAmount <= 0 {
		return nil, &ValidationError{
			Reason: ReasonMissingTotal,
			Hint:   "no positive total amount found in the document; " + manualHint,
		}
	}

	out := &ValidatedInvoice{
		SupplierEmail: *e.SupplierEmail,
		Total:         *e.TotalAmount,
	}

	if e.InvoiceDate != nil && *e.InvoiceDate != "" {
		d, err := time.Parse("2006-01-02", *e.InvoiceDate)
		if err != nil {
			return nil, &ValidationError{
				Reason: ReasonInvalidDate,
				Hint:   fmt.Sprintf("invoice date %q is not YYYY-MM-DD; %s", *e.InvoiceDate, manualHint),
			}
		}
		out.InvoiceDate = &d
	}

	return out, nil
}
