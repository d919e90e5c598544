package router

import (
	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/handler"
)

func GmailRouter(rg *gin.RouterGroup, h *handler.GmailHandler) {
	rg.GET("/status", h.Status)
}
