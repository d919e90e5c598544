package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/dto"
	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/service"
)

type SupplierHandler struct {
	supplierService service.SupplierService
}

func NewSupplierHandler(supplierService service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

func (h *SupplierHandler) List(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	suppliers, err := h.supplierService.List(c.Request.Context(), workspaceID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": dto.ToSupplierResponses(suppliers)})
}

func (h *SupplierHandler) Get(c *gin.Context) {
	supplierID, ok := pathID(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.Get(c.Request.Context(), supplierID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSupplierResponse(supplier))
}

func (h *SupplierHandler) Create(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier, err := h.supplierService.Create(c.Request.Context(), workspaceID, middleware.UserID(c),
		req.Name, req.Email, req.MarkupPercentage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToSupplierResponse(supplier))
}

func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req dto.SupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier, err := h.supplierService.Update(c.Request.Context(), supplierID, middleware.UserID(c),
		req.Name, req.Email, req.MarkupPercentage)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSupplierResponse(supplier))
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	supplierID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoicesDeleted, err := h.supplierService.Delete(c.Request.Context(), supplierID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeleteSupplierResponse{Deleted: true, InvoicesDeleted: invoicesDeleted})
}

func (h *SupplierHandler) ListInvoices(c *gin.Context) {
	supplierID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoices, err := h.supplierService.ListInvoices(c.Request.Context(), supplierID, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": dto.ToInvoiceResponses(invoices)})
}
