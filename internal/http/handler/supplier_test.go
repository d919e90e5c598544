package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"propbill.app/server/internal/http/handler"
	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/service"
)

var _ = Describe("SupplierHandler", func() {
	var (
		router *gin.Engine
		svc    *mockSupplierService
	)

	authed := func(method, target string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockSupplierService{}
		h := handler.NewSupplierHandler(svc)

		auth := middleware.RequireAuth(&mockAuthService{})
		router.POST("/workspaces/:id/suppliers", auth, h.Create)
		router.GET("/suppliers/:id", auth, h.Get)
		router.PUT("/suppliers/:id", auth, h.Update)
		router.DELETE("/suppliers/:id", auth, h.Delete)
	})

	It("returns 201 with the supplier on create", func() {
		body, _ := json.Marshal(map[string]any{
			"name":              "Acme Plumbing",
			"email":             "billing@acme.test",
			"markup_percentage": 15,
		})

		w := authed(http.MethodPost, "/workspaces/7/suppliers", body)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["name"]).To(Equal("Acme Plumbing"))
		Expect(resp["markup_percentage"]).To(Equal(15.0))
	})

	It("rejects a negative markup at the binding layer", func() {
		body, _ := json.Marshal(map[string]any{
			"name":              "Acme Plumbing",
			"markup_percentage": -5,
		})

		w := authed(http.MethodPost, "/workspaces/7/suppliers", body)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects a malformed email at the binding layer", func() {
		body, _ := json.Marshal(map[string]any{
			"name":              "Acme Plumbing",
			"email":             "not-an-email",
			"markup_percentage": 0,
		})

		w := authed(http.MethodPost, "/workspaces/7/suppliers", body)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 for a supplier in a foreign workspace", func() {
		svc.getFn = func(_ context.Context, _, _ int64) (*model.Supplier, error) {
			return nil, service.ErrSupplierNotFound
		}

		w := authed(http.MethodGet, "/suppliers/3", nil)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("reports cascaded invoices on delete", func() {
		svc.deleteFn = func(_ context.Context, supplierID, _ int64) (int64, error) {
			Expect(supplierID).To(Equal(int64(3)))
			return 4, nil
		}

		w := authed(http.MethodDelete, "/suppliers/3", nil)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["invoices_deleted"]).To(Equal(4.0))
	})
})
