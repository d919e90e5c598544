package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/dto"
	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/service"
)

type DocumentHandler struct {
	documentService service.DocumentService
}

func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > service.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the 10 MiB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read uploaded file"})
		return
	}

	doc, err := h.documentService.Upload(c.Request.Context(), workspaceID, middleware.UserID(c),
		fileHeader.Filename, data, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(doc))
}

func (h *DocumentHandler) List(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var status *model.DocumentStatus
	if raw := c.Query("status"); raw != "" {
		parsed, err := model.ParseDocumentStatus(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status = &parsed
	}

	documents, err := h.documentService.List(c.Request.Context(), workspaceID, middleware.UserID(c), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": dto.ToDocumentResponses(documents)})
}

func (h *DocumentHandler) Get(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Get(c.Request.Context(), documentID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}

func (h *DocumentHandler) Download(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.documentService.Download(c.Request.Context(), documentID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/octet-stream", data)
}

func (h *DocumentHandler) Process(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.documentService.Process(c.Request.Context(), documentID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDerivedInvoiceResponse(invoice))
}

func (h *DocumentHandler) CreateInvoice(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.CreateInvoiceManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invoiceDate *time.Time
	if req.InvoiceDate != nil && *req.InvoiceDate != "" {
		parsed, err := time.Parse("2006-01-02", *req.InvoiceDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invoice_date must be YYYY-MM-DD"})
			return
		}
		invoiceDate = &parsed
	}

	invoice, err := h.documentService.CreateInvoiceManual(c.Request.Context(), documentID,
		req.SupplierID, middleware.UserID(c), req.OriginalTotal, invoiceDate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDerivedInvoiceResponse(invoice))
}

func (h *DocumentHandler) Reject(c *gin.Context) {
	documentID, ok := pathID(c, "id")
	if !ok {
		return
	}

	doc, err := h.documentService.Reject(c.Request.Context(), documentID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(doc))
}
