package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgx operations the stores need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same store code runs inside
// and outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Stores struct {
	q Querier
}

func NewStores(q Querier) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Users() UserStore {
	return &userStore{q: s.q}
}

func (s *Stores) Workspaces() WorkspaceStore {
	return &workspaceStore{q: s.q}
}

func (s *Stores) Suppliers() SupplierStore {
	return &supplierStore{q: s.q}
}

func (s *Stores) Documents() DocumentStore {
	return &documentStore{q: s.q}
}

func (s *Stores) Invoices() InvoiceStore {
	return &invoiceStore{q: s.q}
}

func (s *Stores) ProcessedEmails() ProcessedEmailStore {
	return &processedEmailStore{q: s.q}
}
