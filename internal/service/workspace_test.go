package service_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"propbill.app/server/common/id"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/service"
	"propbill.app/server/internal/store"
)

var _ = Describe("WorkspaceService", func() {
	var (
		svc           service.WorkspaceService
		mockWork      *mockWorkspaceStore
		mockSuppliers *mockSupplierStore
		mockInvoices  *mockInvoiceStore
		ctx           context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockWork = &mockWorkspaceStore{}
		mockSuppliers = &mockSupplierStore{}
		mockInvoices = &mockInvoiceStore{}
		svc = service.NewWorkspaceService(mockWork, mockSuppliers, mockInvoices)
		Expect(id.Init(1)).To(Succeed())
	})

	It("creates a workspace with the given name", func() {
		mockWork.createFn = func(_ context.Context, ws *model.Workspace) error {
			Expect(ws.ID).NotTo(BeZero())
			Expect(ws.UserID).To(Equal(int64(10)))
			Expect(ws.Name).To(Equal("Rentals"))
			return nil
		}

		ws, err := svc.Create(ctx, 10, "Rentals")
		Expect(err).NotTo(HaveOccurred())
		Expect(ws.Name).To(Equal("Rentals"))
		Expect(mockWork.createCalls).To(Equal(1))
	})

	It("defaults a blank name on create", func() {
		ws, err := svc.Create(ctx, 10, "   ")
		Expect(err).NotTo(HaveOccurred())
		Expect(ws.Name).To(Equal("Workspace 1"))
	})

	It("returns a workspace the caller owns", func() {
		mockWork.getByIDFn = func(_ context.Context, wsID int64) (*model.Workspace, error) {
			Expect(wsID).To(Equal(int64(7)))
			return &model.Workspace{ID: 7, UserID: 10, Name: "Rentals"}, nil
		}

		ws, err := svc.Get(ctx, 7, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(ws.ID).To(Equal(int64(7)))
	})

	It("hides workspaces owned by another user", func() {
		mockWork.getByIDFn = func(_ context.Context, wsID int64) (*model.Workspace, error) {
			return &model.Workspace{ID: 7, UserID: 99, Name: "Rentals"}, nil
		}

		_, err := svc.Get(ctx, 7, 10)
		Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
	})

	It("maps a missing workspace to ErrWorkspaceNotFound", func() {
		_, err := svc.Get(ctx, 7, 10)
		Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
	})

	It("renames a workspace", func() {
		mockWork.getByIDFn = func(_ context.Context, wsID int64) (*model.Workspace, error) {
			return &model.Workspace{ID: 7, UserID: 10, Name: "Old"}, nil
		}
		mockWork.updateFn = func(_ context.Context, ws *model.Workspace) error {
			Expect(ws.Name).To(Equal("New"))
			return nil
		}

		ws, err := svc.Rename(ctx, 7, 10, "New")
		Expect(err).NotTo(HaveOccurred())
		Expect(ws.Name).To(Equal("New"))
	})

	It("deletes an empty workspace", func() {
		mockWork.getByIDFn = func(_ context.Context, wsID int64) (*model.Workspace, error) {
			return &model.Workspace{ID: 7, UserID: 10}, nil
		}

		Expect(svc.Delete(ctx, 7, 10)).To(Succeed())
		Expect(mockWork.deleteCalls).To(Equal(1))
	})

	It("refuses to delete a workspace with suppliers", func() {
		mockWork.getByIDFn = func(_ context.Context, wsID int64) (*model.Workspace, error) {
			return &model.Workspace{ID: 7, UserID: 10}, nil
		}
		mockSuppliers.countByWorkspaceFn = func(_ context.Context, _ int64) (int64, error) {
			return 2, nil
		}

		err := svc.Delete(ctx, 7, 10)
		Expect(err).To(MatchError(service.ErrWorkspaceNotEmpty))
		Expect(mockWork.deleteCalls).To(BeZero())
	})

	It("refuses to delete a workspace with invoices", func() {
		mockWork.getByIDFn = func(_ context.Context, wsID int64) (*model.Workspace, error) {
			return &model.Workspace{ID: 7, UserID: 10}, nil
		}
		mockInvoices.countByWorkspaceFn = func(_ context.Context, _ int64) (int64, error) {
			return 1, nil
		}

		err := svc.Delete(ctx, 7, 10)
		Expect(err).To(MatchError(service.ErrWorkspaceNotEmpty))
		Expect(mockWork.deleteCalls).To(BeZero())
	})

	It("lists the caller's workspaces", func() {
		mockWork.listByUserFn = func(_ context.Context, userID int64) ([]model.Workspace, error) {
			Expect(userID).To(Equal(int64(10)))
			return []model.Workspace{{ID: 1}, {ID: 2}}, nil
		}

		list, err := svc.List(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))
	})

	It("propagates store failures on get", func() {
		boom := errors.New("connection reset")
		mockWork.getByIDFn = func(_ context.Context, _ int64) (*model.Workspace, error) {
			return nil, boom
		}

		_, err := svc.Get(ctx, 7, 10)
		Expect(err).To(MatchError(boom))
		Expect(errors.Is(err, store.ErrNotFound)).To(BeFalse())
	})
})
