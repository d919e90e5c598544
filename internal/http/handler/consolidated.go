package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/service"
)

type ConsolidatedHandler struct {
	consolidatedService service.ConsolidatedService
}

func NewConsolidatedHandler(consolidatedService service.ConsolidatedService) *ConsolidatedHandler {
	return &ConsolidatedHandler{consolidatedService: consolidatedService}
}

// periodParams parses the start/end query params, both YYYY-MM-DD.
func periodParams(c *gin.Context) (start, end time.Time, ok bool) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return start, end, false
	}
	end, err = time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return start, end, false
	}
	return start, end, true
}

func (h *ConsolidatedHandler) Preview(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	start, end, ok := periodParams(c)
	if !ok {
		return
	}

	preview, err := h.consolidatedService.Preview(c.Request.Context(), workspaceID, middleware.UserID(c), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *ConsolidatedHandler) Generate(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}
	start, end, ok := periodParams(c)
	if !ok {
		return
	}

	data, filename, err := h.consolidatedService.Generate(c.Request.Context(), workspaceID, middleware.UserID(c), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
