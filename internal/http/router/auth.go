package router

import (
	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/handler"
	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/service"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, authService service.AuthService) {
	rg.GET("/login", h.Login)
	rg.GET("/callback", h.Callback)
	rg.GET("/me", middleware.RequireAuth(authService), h.Me)
}
