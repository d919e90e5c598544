package router

import (
	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/handler"
	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/service"
)

type RouterConfig struct {
	DashboardURL string
	IsProduction bool
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	authHandler := handler.NewAuthHandler(services.Auth(), cfg.DashboardURL, cfg.IsProduction)
	AuthRouter(router.Group("/api/auth"), authHandler, services.Auth())

	v1 := router.Group("/api/v1")
	v1.Use(middleware.RequireAuth(services.Auth()))
	{
		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces())
		supplierHandler := handler.NewSupplierHandler(services.Suppliers())
		documentHandler := handler.NewDocumentHandler(services.Documents())
		invoiceHandler := handler.NewInvoiceHandler(services.Invoices())
		gmailHandler := handler.NewGmailHandler(services.Gmail())
		consolidatedHandler := handler.NewConsolidatedHandler(services.Consolidated())
		searchHandler := handler.NewSearchHandler(services.Search())

		WorkspaceRouter(v1.Group("/workspaces"), workspaceHandler, supplierHandler,
			documentHandler, invoiceHandler, gmailHandler, consolidatedHandler, searchHandler)
		SupplierRouter(v1.Group("/suppliers"), supplierHandler)
		DocumentRouter(v1.Group("/documents"), documentHandler)
		InvoiceRouter(v1.Group("/invoices"), invoiceHandler)
		GmailRouter(v1.Group("/gmail"), gmailHandler)
	}
}
