package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/dto"
	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/service"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func (h *InvoiceHandler) List(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sortDesc := c.DefaultQuery("sort", "desc") != "asc"
	invoices, err := h.invoiceService.List(c.Request.Context(), workspaceID, middleware.UserID(c), sortDesc)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": dto.ToInvoiceResponses(invoices)})
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), invoiceID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

func (h *InvoiceHandler) Download(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	userID := middleware.UserID(c)
	url, err := h.invoiceService.DownloadURL(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if url != "" {
		c.Redirect(http.StatusFound, url)
		return
	}

	data, filename, contentType, err := h.invoiceService.Download(c.Request.Context(), invoiceID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), invoiceID, middleware.UserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
