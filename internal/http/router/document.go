package router

import (
	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/handler"
)

func DocumentRouter(rg *gin.RouterGroup, h *handler.DocumentHandler) {
	rg.GET("/:id", h.Get)
	rg.GET("/:id/download", h.Download)
	rg.POST("/:id/process", h.Process)
	rg.POST("/:id/invoice", h.CreateInvoice)
	rg.POST("/:id/reject", h.Reject)
}
