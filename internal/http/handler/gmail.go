package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/service"
)

type GmailHandler struct {
	gmailService service.GmailService
}

func NewGmailHandler(gmailService service.GmailService) *GmailHandler {
	return &GmailHandler{gmailService: gmailService}
}

type syncRequest struct {
	DaysBack int `json:"days_back"`
}

func (h *GmailHandler) Sync(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	req := syncRequest{DaysBack: 7}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	stats, err := h.gmailService.Sync(c.Request.Context(), workspaceID, middleware.UserID(c), req.DaysBack)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *GmailHandler) Status(c *gin.Context) {
	authorized, err := h.gmailService.Status(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authorized": authorized})
}
