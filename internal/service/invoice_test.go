package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"propbill.app/server/common/id"
	"propbill.app/server/internal/blob"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/service"
)

var _ = Describe("InvoiceService", func() {
	var (
		svc          service.InvoiceService
		mockWork     *mockWorkspaceStore
		mockInvoices *mockInvoiceStore
		blobs        *mockBlobStore
		ctx          context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockWork = &mockWorkspaceStore{
			getByIDFn: func(_ context.Context, wsID int64) (*model.Workspace, error) {
				return &model.Workspace{ID: wsID, UserID: 10}, nil
			},
		}
		mockInvoices = &mockInvoiceStore{}
		blobs = &mockBlobStore{}
		svc = service.NewInvoiceService(mockWork, mockInvoices, blobs)
		Expect(id.Init(1)).To(Succeed())
	})

	It("sorts by invoice date, undated falling back to creation time", func() {
		jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		mar := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
		mockInvoices.listByWorkspaceFn = func(_ context.Context, _ int64) ([]model.InvoiceWithSupplier, error) {
			return []model.InvoiceWithSupplier{
				{Invoice: model.Invoice{ID: 1, InvoiceDate: &mar, CreatedAt: jan}},
				{Invoice: model.Invoice{ID: 2, CreatedAt: feb}},
				{Invoice: model.Invoice{ID: 3, InvoiceDate: &jan, CreatedAt: mar}},
			}, nil
		}

		asc, err := svc.List(ctx, 7, 10, false)
		Expect(err).NotTo(HaveOccurred())
		Expect([]int64{asc[0].ID, asc[1].ID, asc[2].ID}).To(Equal([]int64{3, 2, 1}))

		desc, err := svc.List(ctx, 7, 10, true)
		Expect(err).NotTo(HaveOccurred())
		Expect([]int64{desc[0].ID, desc[1].ID, desc[2].ID}).To(Equal([]int64{1, 2, 3}))
	})

	It("downloads the source document under a stable name", func() {
		mockInvoices.getByIDFn = func(_ context.Context, _ int64) (*model.InvoiceWithSupplier, error) {
			return &model.InvoiceWithSupplier{
				Invoice: model.Invoice{ID: 100, WorkspaceID: 7, BlobKey: "documents/7/abc_bill.pdf"},
			}, nil
		}
		blobs.getFn = func(_ context.Context, key string) ([]byte, error) {
			Expect(key).To(Equal("documents/7/abc_bill.pdf"))
			return []byte("%PDF-1.4"), nil
		}

		data, filename, contentType, err := svc.Download(ctx, 100, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte("%PDF-1.4")))
		Expect(filename).To(Equal("invoice_100.pdf"))
		Expect(contentType).To(Equal("application/pdf"))
	})

	It("returns a signed download URL when the backend supports it", func() {
		mockInvoices.getByIDFn = func(_ context.Context, _ int64) (*model.InvoiceWithSupplier, error) {
			return &model.InvoiceWithSupplier{
				Invoice: model.Invoice{ID: 100, WorkspaceID: 7, BlobKey: "documents/7/abc_bill.pdf"},
			}, nil
		}
		blobs.presignFn = func(_ context.Context, key string, expires time.Duration) (string, error) {
			Expect(key).To(Equal("documents/7/abc_bill.pdf"))
			Expect(expires).To(BeNumerically(">", 0))
			return "https://blobs.example/abc_bill.pdf?sig=xyz", nil
		}

		url, err := svc.DownloadURL(ctx, 100, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(Equal("https://blobs.example/abc_bill.pdf?sig=xyz"))
	})

	It("signals the streaming fallback when presigning is unsupported", func() {
		mockInvoices.getByIDFn = func(_ context.Context, _ int64) (*model.InvoiceWithSupplier, error) {
			return &model.InvoiceWithSupplier{
				Invoice: model.Invoice{ID: 100, WorkspaceID: 7, BlobKey: "documents/7/abc_bill.pdf"},
			}, nil
		}
		blobs.presignFn = func(_ context.Context, _ string, _ time.Duration) (string, error) {
			return "", blob.ErrPresignUnsupported
		}

		url, err := svc.DownloadURL(ctx, 100, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(url).To(BeEmpty())
	})

	It("maps a missing blob to ErrInvoiceNotFound", func() {
		mockInvoices.getByIDFn = func(_ context.Context, _ int64) (*model.InvoiceWithSupplier, error) {
			return &model.InvoiceWithSupplier{
				Invoice: model.Invoice{ID: 100, WorkspaceID: 7, BlobKey: "documents/7/gone.pdf"},
			}, nil
		}
		blobs.getFn = func(_ context.Context, _ string) ([]byte, error) {
			return nil, blob.ErrNotFound
		}

		_, _, _, err := svc.Download(ctx, 100, 10)
		Expect(err).To(MatchError(service.ErrInvoiceNotFound))
	})

	It("deletes the row and discards the blob best-effort", func() {
		mockInvoices.getByIDFn = func(_ context.Context, _ int64) (*model.InvoiceWithSupplier, error) {
			return &model.InvoiceWithSupplier{
				Invoice: model.Invoice{ID: 100, WorkspaceID: 7, BlobKey: "documents/7/abc_bill.pdf"},
			}, nil
		}
		blobs.deleteFn = func(_ context.Context, _ string) error {
			return errors.New("bucket unavailable")
		}

		Expect(svc.Delete(ctx, 100, 10)).To(Succeed())
		Expect(mockInvoices.deleteCalls).To(Equal(1))
	})

	It("hides invoices in foreign workspaces", func() {
		mockInvoices.getByIDFn = func(_ context.Context, _ int64) (*model.InvoiceWithSupplier, error) {
			return &model.InvoiceWithSupplier{
				Invoice: model.Invoice{ID: 100, WorkspaceID: 7},
			}, nil
		}
		mockWork.getByIDFn = func(_ context.Context, wsID int64) (*model.Workspace, error) {
			return &model.Workspace{ID: wsID, UserID: 99}, nil
		}

		_, err := svc.Get(ctx, 100, 10)
		Expect(err).To(MatchError(service.ErrInvoiceNotFound))
	})
})
