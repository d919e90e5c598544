package router

import (
	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/handler"
)

func InvoiceRouter(rg *gin.RouterGroup, h *handler.InvoiceHandler) {
	rg.GET("/:id", h.Get)
	rg.GET("/:id/download", h.Download)
	rg.DELETE("/:id", h.Delete)
}
