package router

import (
	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/handler"
)

func SupplierRouter(rg *gin.RouterGroup, h *handler.SupplierHandler) {
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/invoices", h.ListInvoices)
}
