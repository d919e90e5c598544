package router

import (
	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/handler"
)

func WorkspaceRouter(
	rg *gin.RouterGroup,
	ws *handler.WorkspaceHandler,
	suppliers *handler.SupplierHandler,
	documents *handler.DocumentHandler,
	invoices *handler.InvoiceHandler,
	gmail *handler.GmailHandler,
	consolidated *handler.ConsolidatedHandler,
	search *handler.SearchHandler,
) {
	rg.GET("", ws.List)
	rg.POST("", ws.Create)
	rg.GET("/:id", ws.Get)
	rg.PATCH("/:id", ws.Rename)
	rg.DELETE("/:id", ws.Delete)

	rg.GET("/:id/suppliers", suppliers.List)
	rg.POST("/:id/suppliers", suppliers.Create)

	rg.GET("/:id/documents", documents.List)
	rg.POST("/:id/documents", documents.Upload)

	rg.GET("/:id/invoices", invoices.List)

	rg.POST("/:id/gmail/sync", gmail.Sync)

	rg.GET("/:id/consolidated/preview", consolidated.Preview)
	rg.POST("/:id/consolidated", consolidated.Generate)

	rg.GET("/:id/search", search.Search)
}
