package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/http/middleware"
	"propbill.app/server/internal/service"
)

type SearchHandler struct {
	searchService service.SearchService
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

func (h *SearchHandler) Search(c *gin.Context) {
	workspaceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	results, err := h.searchService.Search(c.Request.Context(), workspaceID, middleware.UserID(c), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
