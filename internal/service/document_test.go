package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"propbill.app/server/common/id"
	"propbill.app/server/internal/ai"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/service"
)

var _ = Describe("DocumentService", func() {
	var (
		svc           service.DocumentService
		mockWork      *mockWorkspaceStore
		mockDocs      *mockDocumentStore
		mockSuppliers *mockSupplierStore
		mockInvoices  *mockInvoiceStore
		blobs         *mockBlobStore
		extractor     *mockExtractor
		fields        *mockFieldExtractor
		ctx           context.Context
	)

	pendingDoc := func() *model.PendingDocument {
		return &model.PendingDocument{
			ID:          40,
			WorkspaceID: 7,
			BlobKey:     "documents/7/abc_invoice.pdf",
			Filename:    "invoice.pdf",
			Status:      model.StatusPending,
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		mockWork = &mockWorkspaceStore{
			getByIDFn: func(_ context.Context, wsID int64) (*model.Workspace, error) {
				return &model.Workspace{ID: wsID, UserID: 10}, nil
			},
		}
		mockDocs = &mockDocumentStore{}
		mockSuppliers = &mockSupplierStore{}
		mockInvoices = &mockInvoiceStore{}
		blobs = &mockBlobStore{}
		extractor = &mockExtractor{}
		fields = &mockFieldExtractor{}
		svc = service.NewDocumentService(mockWork, mockDocs, mockSuppliers, blobs, extractor, fields, &mockTxRunner{
			withTxFn: func(ctx context.Context, fn func(stores service.StoreProvider) error) error {
				return fn(&mockStoreProvider{documents: mockDocs, invoices: mockInvoices})
			},
		})
		Expect(id.Init(1)).To(Succeed())
	})

	Describe("Upload", func() {
		It("stores the blob and creates a pending row", func() {
			blobs.putFn = func(_ context.Context, key string, data []byte, contentType string) error {
				Expect(key).To(HavePrefix("documents/7/"))
				Expect(key).To(HaveSuffix("_invoice.pdf"))
				Expect(contentType).To(Equal("application/pdf"))
				return nil
			}
			mockDocs.createFn = func(_ context.Context, doc *model.PendingDocument) error {
				Expect(doc.Status).To(Equal(model.StatusPending))
				Expect(doc.Filename).To(Equal("invoice.pdf"))
				return nil
			}

			doc, err := svc.Upload(ctx, 7, 10, "invoice.pdf", []byte("%PDF-1.4"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Status).To(Equal(model.StatusPending))
			Expect(blobs.putCalls).To(Equal(1))
		})

		It("rejects unsupported extensions", func() {
			_, err := svc.Upload(ctx, 7, 10, "malware.exe", []byte("x"), nil)
			var typeErr *service.FileTypeError
			Expect(errors.As(err, &typeErr)).To(BeTrue())
			Expect(typeErr.Extension).To(Equal(".exe"))
			Expect(blobs.putCalls).To(BeZero())
		})

		It("rejects oversized files", func() {
			data := make([]byte, service.MaxUploadSize+1)
			_, err := svc.Upload(ctx, 7, 10, "big.pdf", data, nil)
			var sizeErr *service.FileSizeError
			Expect(errors.As(err, &sizeErr)).To(BeTrue())
			Expect(blobs.putCalls).To(BeZero())
		})

		It("cleans up the blob when the row insert fails", func() {
			mockDocs.createFn = func(_ context.Context, _ *model.PendingDocument) error {
				return errors.New("insert failed")
			}

			_, err := svc.Upload(ctx, 7, 10, "invoice.pdf", []byte("%PDF-1.4"), nil)
			Expect(err).To(HaveOccurred())
			Expect(blobs.deleteCalls).To(Equal(1))
		})
	})

	Describe("Process", func() {
		supplier := model.Supplier{
			ID:               3,
			WorkspaceID:      7,
			Name:             "Acme Plumbing",
			Email:            strPtr("billing@acme.test"),
			MarkupPercentage: 15,
		}

		BeforeEach(func() {
			mockDocs.getByIDFn = func(_ context.Context, _ int64) (*model.PendingDocument, error) {
				return pendingDoc(), nil
			}
			blobs.getFn = func(_ context.Context, _ string) ([]byte, error) {
				return []byte("%PDF-1.4"), nil
			}
			extractor.textFn = func(_ context.Context, _ string, _ []byte) (string, error) {
				return "Invoice from Acme Plumbing, total $120.00", nil
			}
			fields.extractFn = func(_ context.Context, _ string) (*ai.ExtractedInvoice, error) {
				return &ai.ExtractedInvoice{
					SupplierEmail: strPtr("billing@acme.test"),
					InvoiceDate:   strPtr("2026-01-15"),
					TotalAmount:   f64Ptr(120),
				}, nil
			}
			mockSuppliers.listByWorkspaceFn = func(_ context.Context, _ int64) ([]model.Supplier, error) {
				return []model.Supplier{supplier}, nil
			}
		})

		It("derives an invoice with the supplier markup applied", func() {
			mockInvoices.createFn = func(_ context.Context, inv *model.Invoice) error {
				Expect(inv.SupplierID).To(Equal(int64(3)))
				Expect(inv.WorkspaceID).To(Equal(int64(7)))
				Expect(inv.OriginalTotal).To(Equal(120.0))
				Expect(inv.MarkupTotal).To(BeNumerically("~", 138.0, 1e-9))
				Expect(inv.InvoiceDate).NotTo(BeNil())
				return nil
			}

			inv, err := svc.Process(ctx, 40, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(inv.MarkupTotal).To(BeNumerically("~", 138.0, 1e-9))
			Expect(mockDocs.resolveCalls).To(Equal(1))
			Expect(mockInvoices.createCalls).To(Equal(1))
		})

		It("refuses a document that already resolved", func() {
			mockDocs.getByIDFn = func(_ context.Context, _ int64) (*model.PendingDocument, error) {
				doc := pendingDoc()
				doc.Status = model.StatusProcessed
				return doc, nil
			}

			_, err := svc.Process(ctx, 40, 10)
			var stateErr *model.InvalidStateError
			Expect(errors.As(err, &stateErr)).To(BeTrue())
			Expect(stateErr.Status).To(Equal(model.StatusProcessed))
		})

		It("wraps text extraction failures", func() {
			extractor.textFn = func(_ context.Context, _ string, _ []byte) (string, error) {
				return "", errors.New("garbled pdf")
			}

			_, err := svc.Process(ctx, 40, 10)
			Expect(err).To(MatchError(service.ErrExtraction))
		})

		It("wraps model transport failures", func() {
			fields.extractFn = func(_ context.Context, _ string) (*ai.ExtractedInvoice, error) {
				return nil, errors.New("rate limited")
			}

			_, err := svc.Process(ctx, 40, 10)
			Expect(err).To(MatchError(service.ErrAIExtraction))
		})

		It("surfaces validation failures with a manual hint", func() {
			fields.extractFn = func(_ context.Context, _ string) (*ai.ExtractedInvoice, error) {
				return &ai.ExtractedInvoice{TotalAmount: f64Ptr(120)}, nil
			}

			_, err := svc.Process(ctx, 40, 10)
			var valErr *ai.ValidationError
			Expect(errors.As(err, &valErr)).To(BeTrue())
			Expect(valErr.Reason).To(Equal(ai.ReasonMissingEmail))
			Expect(mockInvoices.createCalls).To(BeZero())
		})

		It("fails when no supplier has the extracted email", func() {
			fields.extractFn = func(_ context.Context, _ string) (*ai.ExtractedInvoice, error) {
				return &ai.ExtractedInvoice{
					SupplierEmail: strPtr("unknown@nowhere.test"),
					TotalAmount:   f64Ptr(120),
				}, nil
			}

			_, err := svc.Process(ctx, 40, 10)
			Expect(err).To(MatchError(service.ErrSupplierMatch))
			Expect(mockInvoices.createCalls).To(BeZero())
		})

		It("loses the race to a concurrent derivation cleanly", func() {
			mockDocs.resolveFn = func(_ context.Context, _ int64, _ model.DocumentStatus, _ time.Time) (bool, error) {
				return false, nil
			}
			mockDocs.getByIDFn = func(_ context.Context, _ int64) (*model.PendingDocument, error) {
				if mockDocs.resolveCalls > 0 {
					doc := pendingDoc()
					doc.Status = model.StatusProcessed
					return doc, nil
				}
				return pendingDoc(), nil
			}

			_, err := svc.Process(ctx, 40, 10)
			var stateErr *model.InvalidStateError
			Expect(errors.As(err, &stateErr)).To(BeTrue())
			Expect(stateErr.Status).To(Equal(model.StatusProcessed))
			Expect(mockInvoices.createCalls).To(BeZero())
		})
	})

	Describe("CreateInvoiceManual", func() {
		BeforeEach(func() {
			mockDocs.getByIDFn = func(_ context.Context, _ int64) (*model.PendingDocument, error) {
				return pendingDoc(), nil
			}
			mockSuppliers.getByIDFn = func(_ context.Context, _ int64) (*model.Supplier, error) {
				return &model.Supplier{ID: 3, WorkspaceID: 7, MarkupPercentage: 10}, nil
			}
		})

		It("derives an invoice from operator fields", func() {
			date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
			inv, err := svc.CreateInvoiceManual(ctx, 40, 3, 10, 200, &date)
			Expect(err).NotTo(HaveOccurred())
			Expect(inv.OriginalTotal).To(Equal(200.0))
			Expect(inv.MarkupTotal).To(BeNumerically("~", 220.0, 1e-9))
			Expect(mockInvoices.createCalls).To(Equal(1))
		})

		It("hides suppliers from another user's workspace", func() {
			mockSuppliers.getByIDFn = func(_ context.Context, _ int64) (*model.Supplier, error) {
				return &model.Supplier{ID: 3, WorkspaceID: 999}, nil
			}
			mockWork.getByIDFn = func(_ context.Context, wsID int64) (*model.Workspace, error) {
				owner := int64(10)
				if wsID == 999 {
					owner = 11
				}
				return &model.Workspace{ID: wsID, UserID: owner}, nil
			}

			_, err := svc.CreateInvoiceManual(ctx, 40, 3, 10, 200, nil)
			Expect(err).To(MatchError(service.ErrSupplierNotFound))
		})

		It("rejects a supplier from another workspace of the same caller", func() {
			mockSuppliers.getByIDFn = func(_ context.Context, _ int64) (*model.Supplier, error) {
				return &model.Supplier{ID: 3, WorkspaceID: 8}, nil
			}

			_, err := svc.CreateInvoiceManual(ctx, 40, 3, 10, 200, nil)
			Expect(err).To(MatchError(service.ErrInvalidInput))
			Expect(mockInvoices.createCalls).To(BeZero())
		})

		It("rejects a non-positive total", func() {
			_, err := svc.CreateInvoiceManual(ctx, 40, 3, 10, 0, nil)
			Expect(err).To(MatchError(service.ErrInvalidInput))
		})
	})

	Describe("Reject", func() {
		It("resolves the document and discards its blob", func() {
			mockDocs.getByIDFn = func(_ context.Context, _ int64) (*model.PendingDocument, error) {
				return pendingDoc(), nil
			}
			mockDocs.resolveFn = func(_ context.Context, docID int64, target model.DocumentStatus, _ time.Time) (bool, error) {
				Expect(docID).To(Equal(int64(40)))
				Expect(target).To(Equal(model.StatusRejected))
				return true, nil
			}

			doc, err := svc.Reject(ctx, 40, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Status).To(Equal(model.StatusRejected))
			Expect(doc.ProcessedAt).NotTo(BeNil())
			Expect(blobs.deleteCalls).To(Equal(1))
		})

		It("still succeeds when the blob delete fails", func() {
			mockDocs.getByIDFn = func(_ context.Context, _ int64) (*model.PendingDocument, error) {
				return pendingDoc(), nil
			}
			blobs.deleteFn = func(_ context.Context, _ string) error {
				return errors.New("bucket unavailable")
			}

			doc, err := svc.Reject(ctx, 40, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Status).To(Equal(model.StatusRejected))
		})

		It("refuses a document that already resolved", func() {
			mockDocs.getByIDFn = func(_ context.Context, _ int64) (*model.PendingDocument, error) {
				doc := pendingDoc()
				doc.Status = model.StatusRejected
				return doc, nil
			}

			_, err := svc.Reject(ctx, 40, 10)
			var stateErr *model.InvalidStateError
			Expect(errors.As(err, &stateErr)).To(BeTrue())
		})
	})
})
