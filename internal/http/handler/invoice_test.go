package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"propbill.app/server/internal/http/handler"
	"propbill.app/server/internal/http/middleware"
)

var _ = Describe("InvoiceHandler", func() {
	var (
		router *gin.Engine
		svc    *mockInvoiceService
	)

	authed := func(method, target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockInvoiceService{}
		h := handler.NewInvoiceHandler(svc)

		auth := middleware.RequireAuth(&mockAuthService{})
		router.GET("/invoices/:id/download", auth, h.Download)
	})

	It("redirects to the signed URL when the backend mints one", func() {
		svc.downloadURLFn = func(_ context.Context, invoiceID, _ int64) (string, error) {
			Expect(invoiceID).To(Equal(int64(100)))
			return "https://blobs.example/abc_bill.pdf?sig=xyz", nil
		}

		w := authed(http.MethodGet, "/invoices/100/download")

		Expect(w.Code).To(Equal(http.StatusFound))
		Expect(w.Header().Get("Location")).To(Equal("https://blobs.example/abc_bill.pdf?sig=xyz"))
	})

	It("streams the bytes when no signed URL is available", func() {
		svc.downloadURLFn = func(_ context.Context, _, _ int64) (string, error) {
			return "", nil
		}
		svc.downloadFn = func(_ context.Context, _, _ int64) ([]byte, string, string, error) {
			return []byte("%PDF-1.4"), "invoice_100.pdf", "application/pdf", nil
		}

		w := authed(http.MethodGet, "/invoices/100/download")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/pdf"))
		Expect(w.Header().Get("Content-Disposition")).To(ContainSubstring("invoice_100.pdf"))
		Expect(w.Body.Bytes()).To(Equal([]byte("%PDF-1.4")))
	})
})
