package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"propbill.app/server/internal/model"
)

type invoiceStore struct {
	q Querier
}

const invoiceJoinColumns = `
	i.id, i.supplier_id, i.workspace_id, i.original_total, i.markup_total,
	i.blob_key, i.invoice_date, i.created_at,
	s.id, s.workspace_id, s.name, s.email, s.markup_percentage, s.created_at, s.updated_at`

func scanInvoiceWithSupplier(row pgx.Row) (*model.InvoiceWithSupplier, error) {
	var iv model.InvoiceWithSupplier
	err := row.Scan(&iv.ID, &iv.SupplierID, &iv.WorkspaceID, &iv.OriginalTotal,
		&iv.MarkupTotal, &iv.BlobKey, &iv.InvoiceDate, &iv.CreatedAt,
		&iv.Supplier.ID, &iv.Supplier.WorkspaceID, &iv.Supplier.Name,
		&iv.Supplier.Email, &iv.Supplier.MarkupPercentage,
		&iv.Supplier.CreatedAt, &iv.Supplier.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &iv, nil
}

func collectInvoicesWithSupplier(rows pgx.Rows) ([]model.InvoiceWithSupplier, error) {
	defer rows.Close()
	result := make([]model.InvoiceWithSupplier, 0)
	for rows.Next() {
		var iv model.InvoiceWithSupplier
		if err := rows.Scan(&iv.ID, &iv.SupplierID, &iv.WorkspaceID, &iv.OriginalTotal,
			&iv.MarkupTotal, &iv.BlobKey, &iv.InvoiceDate, &iv.CreatedAt,
			&iv.Supplier.ID, &iv.Supplier.WorkspaceID, &iv.Supplier.Name,
			&iv.Supplier.Email, &iv.Supplier.MarkupPercentage,
			&iv.Supplier.CreatedAt, &iv.Supplier.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, iv)
	}
	return result, rows.Err()
}

func (s *invoiceStore) GetByID(ctx context.Context, id int64) (*model.InvoiceWithSupplier, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+invoiceJoinColumns+`
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.id = $1`, id)
	return scanInvoiceWithSupplier(row)
}

func (s *invoiceStore) Create(ctx context.Context, inv *model.Invoice) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO invoices (id, supplier_id, workspace_id, original_total, markup_total, blob_key, invoice_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		inv.ID, inv.SupplierID, inv.WorkspaceID, inv.OriginalTotal,
		inv.MarkupTotal, inv.BlobKey, inv.InvoiceDate)
	return row.Scan(&inv.CreatedAt)
}

func (s *invoiceStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *invoiceStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.InvoiceWithSupplier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+invoiceJoinColumns+`
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.workspace_id = $1
		ORDER BY i.created_at DESC`, workspaceID)
	if err != nil {
		return nil, err
	}
	return collectInvoicesWithSupplier(rows)
}

func (s *invoiceStore) ListBySupplier(ctx context.Context, supplierID int64) ([]model.InvoiceWithSupplier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+invoiceJoinColumns+`
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.supplier_id = $1
		ORDER BY i.invoice_date DESC NULLS LAST, i.created_at DESC`, supplierID)
	if err != nil {
		return nil, err
	}
	return collectInvoicesWithSupplier(rows)
}

// ListForPeriod returns invoices whose invoice_date falls inside [from, to].
// Invoices without a date fall back to created_at so they are never silently
// dropped from a billing period.
func (s *invoiceStore) ListForPeriod(ctx context.Context, workspaceID int64, from, to time.Time) ([]model.InvoiceWithSupplier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+invoiceJoinColumns+`
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.workspace_id = $1
		  AND COALESCE(i.invoice_date, i.created_at) >= $2
		  AND COALESCE(i.invoice_date, i.created_at) <= $3
		ORDER BY s.name, COALESCE(i.invoice_date, i.created_at)`,
		workspaceID, from, to)
	if err != nil {
		return nil, err
	}
	return collectInvoicesWithSupplier(rows)
}

func (s *invoiceStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error) {
	var count int64
	err := s.q.QueryRow(ctx,
		`SELECT count(*) FROM invoices WHERE workspace_id = $1`, workspaceID).Scan(&count)
	return count, err
}

func (s *invoiceStore) DeleteBySupplier(ctx context.Context, supplierID int64) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM invoices WHERE supplier_id = $1`, supplierID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Search matches on supplier name, either total rendered as text, or the
// invoice date rendered as text.
func (s *invoiceStore) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.InvoiceWithSupplier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+invoiceJoinColumns+`
		FROM invoices i
		JOIN suppliers s ON s.id = i.supplier_id
		WHERE i.workspace_id = $1
		  AND (s.name ILIKE '%' || $2 || '%'
		       OR i.original_total::text ILIKE '%' || $2 || '%'
		       OR i.markup_total::text ILIKE '%' || $2 || '%'
		       OR i.invoice_date::text ILIKE '%' || $2 || '%')
		ORDER BY i.created_at DESC
		LIMIT $3`, workspaceID, query, limit)
	if err != nil {
		return nil, err
	}
	return collectInvoicesWithSupplier(rows)
}
