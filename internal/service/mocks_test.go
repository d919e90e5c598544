package service_test

import (
	"context"
	"time"

	"propbill.app/server/internal/ai"
	"propbill.app/server/internal/gmail"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/service"
	"propbill.app/server/internal/store"
)

type mockUserStore struct {
	getByIDFn       func(ctx context.Context, id int64) (*model.User, error)
	getByGoogleIDFn func(ctx context.Context, googleID string) (*model.User, error)
	createFn        func(ctx context.Context, user *model.User) error
	updateFn        func(ctx context.Context, user *model.User) error
	createCalls     int
	updateCalls     int
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	if m.getByGoogleIDFn != nil {
		return m.getByGoogleIDFn(ctx, googleID)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) Update(ctx context.Context, user *model.User) error {
	m.updateCalls++
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

type mockWorkspaceStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.Workspace, error)
	createFn     func(ctx context.Context, ws *model.Workspace) error
	updateFn     func(ctx context.Context, ws *model.Workspace) error
	deleteFn     func(ctx context.Context, id int64) error
	listByUserFn func(ctx context.Context, userID int64) ([]model.Workspace, error)
	createCalls  int
	deleteCalls  int
}

func (m *mockWorkspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockWorkspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockWorkspaceStore) ListByUser(ctx context.Context, userID int64) ([]model.Workspace, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return []model.Workspace{}, nil
}

type mockSupplierStore struct {
	getByIDFn          func(ctx context.Context, id int64) (*model.Supplier, error)
	createFn           func(ctx context.Context, supplier *model.Supplier) error
	updateFn           func(ctx context.Context, supplier *model.Supplier) error
	deleteFn           func(ctx context.Context, id int64) error
	listByWorkspaceFn  func(ctx context.Context, workspaceID int64) ([]model.Supplier, error)
	countByWorkspaceFn func(ctx context.Context, workspaceID int64) (int64, error)
	searchFn           func(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Supplier, error)
	deleteCalls        int
}

func (m *mockSupplierStore) GetByID(ctx context.Context, id int64) (*model.Supplier, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockSupplierStore) Create(ctx context.Context, supplier *model.Supplier) error {
	if m.createFn != nil {
		return m.createFn(ctx, supplier)
	}
	return nil
}

func (m *mockSupplierStore) Update(ctx context.Context, supplier *model.Supplier) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, supplier)
	}
	return nil
}

func (m *mockSupplierStore) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSupplierStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Supplier, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID)
	}
	return []model.Supplier{}, nil
}

func (m *mockSupplierStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error) {
	if m.countByWorkspaceFn != nil {
		return m.countByWorkspaceFn(ctx, workspaceID)
	}
	return 0, nil
}

func (m *mockSupplierStore) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Supplier, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, workspaceID, query, limit)
	}
	return []model.Supplier{}, nil
}

type mockDocumentStore struct {
	getByIDFn         func(ctx context.Context, id int64) (*model.PendingDocument, error)
	createFn          func(ctx context.Context, doc *model.PendingDocument) error
	listByWorkspaceFn func(ctx context.Context, workspaceID int64, status *model.DocumentStatus) ([]model.PendingDocument, error)
	resolveFn         func(ctx context.Context, id int64, target model.DocumentStatus, at time.Time) (bool, error)
	searchFn          func(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.PendingDocument, error)
	createCalls       int
	resolveCalls      int
}

func (m *mockDocumentStore) GetByID(ctx context.Context, id int64) (*model.PendingDocument, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockDocumentStore) Create(ctx context.Context, doc *model.PendingDocument) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, doc)
	}
	return nil
}

func (m *mockDocumentStore) ListByWorkspace(ctx context.Context, workspaceID int64, status *model.DocumentStatus) ([]model.PendingDocument, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID, status)
	}
	return []model.PendingDocument{}, nil
}

func (m *mockDocumentStore) Resolve(ctx context.Context, id int64, target model.DocumentStatus, at time.Time) (bool, error) {
	m.resolveCalls++
	if m.resolveFn != nil {
		return m.resolveFn(ctx, id, target, at)
	}
	return true, nil
}

func (m *mockDocumentStore) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.PendingDocument, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, workspaceID, query, limit)
	}
	return []model.PendingDocument{}, nil
}

type mockInvoiceStore struct {
	getByIDFn          func(ctx context.Context, id int64) (*model.InvoiceWithSupplier, error)
	createFn           func(ctx context.Context, inv *model.Invoice) error
	deleteFn           func(ctx context.Context, id int64) error
	listByWorkspaceFn  func(ctx context.Context, workspaceID int64) ([]model.InvoiceWithSupplier, error)
	listBySupplierFn   func(ctx context.Context, supplierID int64) ([]model.InvoiceWithSupplier, error)
	listForPeriodFn    func(ctx context.Context, workspaceID int64, from, to time.Time) ([]model.InvoiceWithSupplier, error)
	countByWorkspaceFn func(ctx context.Context, workspaceID int64) (int64, error)
	deleteBySupplierFn func(ctx context.Context, supplierID int64) (int64, error)
	searchFn           func(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.InvoiceWithSupplier, error)
	createCalls        int
	deleteCalls        int
}

func (m *mockInvoiceStore) GetByID(ctx context.Context, id int64) (*model.InvoiceWithSupplier, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockInvoiceStore) Create(ctx context.Context, inv *model.Invoice) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	return nil
}

func (m *mockInvoiceStore) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockInvoiceStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.InvoiceWithSupplier, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID)
	}
	return []model.InvoiceWithSupplier{}, nil
}

func (m *mockInvoiceStore) ListBySupplier(ctx context.Context, supplierID int64) ([]model.InvoiceWithSupplier, error) {
	if m.listBySupplierFn != nil {
		return m.listBySupplierFn(ctx, supplierID)
	}
	return []model.InvoiceWithSupplier{}, nil
}

func (m *mockInvoiceStore) ListForPeriod(ctx context.Context, workspaceID int64, from, to time.Time) ([]model.InvoiceWithSupplier, error) {
	if m.listForPeriodFn != nil {
		return m.listForPeriodFn(ctx, workspaceID, from, to)
	}
	return []model.InvoiceWithSupplier{}, nil
}

func (m *mockInvoiceStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int64, error) {
	if m.countByWorkspaceFn != nil {
		return m.countByWorkspaceFn(ctx, workspaceID)
	}
	return 0, nil
}

func (m *mockInvoiceStore) DeleteBySupplier(ctx context.Context, supplierID int64) (int64, error) {
	if m.deleteBySupplierFn != nil {
		return m.deleteBySupplierFn(ctx, supplierID)
	}
	return 0, nil
}

func (m *mockInvoiceStore) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.InvoiceWithSupplier, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, workspaceID, query, limit)
	}
	return []model.InvoiceWithSupplier{}, nil
}

type mockProcessedEmailStore struct {
	existsFn    func(ctx context.Context, workspaceID int64, gmailMessageID string) (bool, error)
	createFn    func(ctx context.Context, rec *model.ProcessedEmail) error
	createCalls int
}

func (m *mockProcessedEmailStore) Exists(ctx context.Context, workspaceID int64, gmailMessageID string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, workspaceID, gmailMessageID)
	}
	return false, nil
}

func (m *mockProcessedEmailStore) Create(ctx context.Context, rec *model.ProcessedEmail) error {
	m.createCalls++
	if m.createFn != nil {
		return m.createFn(ctx, rec)
	}
	return nil
}

type mockStoreProvider struct {
	users           *mockUserStore
	workspaces      *mockWorkspaceStore
	suppliers       *mockSupplierStore
	documents       *mockDocumentStore
	invoices        *mockInvoiceStore
	processedEmails *mockProcessedEmailStore
}

func (p *mockStoreProvider) Users() store.UserStore                     { return p.users }
func (p *mockStoreProvider) Workspaces() store.WorkspaceStore           { return p.workspaces }
func (p *mockStoreProvider) Suppliers() store.SupplierStore             { return p.suppliers }
func (p *mockStoreProvider) Documents() store.DocumentStore             { return p.documents }
func (p *mockStoreProvider) Invoices() store.InvoiceStore               { return p.invoices }
func (p *mockStoreProvider) ProcessedEmails() store.ProcessedEmailStore { return p.processedEmails }

type mockTxRunner struct {
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	return m.withTxFn(ctx, fn)
}

type mockBlobStore struct {
	putFn     func(ctx context.Context, key string, data []byte, contentType string) error
	getFn     func(ctx context.Context, key string) ([]byte, error)
	deleteFn  func(ctx context.Context, key string) error
	presignFn func(ctx context.Context, key string, expires time.Duration) (string, error)

	putCalls    int
	deleteCalls int
}

func (m *mockBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	m.putCalls++
	if m.putFn != nil {
		return m.putFn(ctx, key, data, contentType)
	}
	return nil
}

func (m *mockBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return []byte{}, nil
}

func (m *mockBlobStore) Delete(ctx context.Context, key string) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockBlobStore) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	if m.presignFn != nil {
		return m.presignFn(ctx, key, expires)
	}
	return "", nil
}

type mockExtractor struct {
	textFn func(ctx context.Context, filename string, data []byte) (string, error)
}

func (m *mockExtractor) Text(ctx context.Context, filename string, data []byte) (string, error) {
	if m.textFn != nil {
		return m.textFn(ctx, filename, data)
	}
	return "", nil
}

type mockFieldExtractor struct {
	extractFn func(ctx context.Context, text string) (*ai.ExtractedInvoice, error)
}

func (m *mockFieldExtractor) Extract(ctx context.Context, text string) (*ai.ExtractedInvoice, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, text)
	}
	return &ai.ExtractedInvoice{}, nil
}

type mockGmailClient struct {
	listFn  func(ctx context.Context, query string, max int64) ([]string, error)
	fetchFn func(ctx context.Context, messageID string) ([]gmail.Attachment, error)
	tokenFn func() (string, error)
}

func (m *mockGmailClient) ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx, query, max)
	}
	return []string{}, nil
}

func (m *mockGmailClient) FetchPDFAttachments(ctx context.Context, messageID string) ([]gmail.Attachment, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, messageID)
	}
	return []gmail.Attachment{}, nil
}

func (m *mockGmailClient) AccessToken() (string, error) {
	if m.tokenFn != nil {
		return m.tokenFn()
	}
	return "access-token", nil
}
