package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"propbill.app/server/internal/ai"
	"propbill.app/server/internal/gmail"
	"propbill.app/server/internal/model"
	"propbill.app/server/internal/service"
)

// respondServiceError maps service sentinels to HTTP statuses. Anything
// unmapped is a 500 with the detail kept out of the response body.
func respondServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var stateErr *model.InvalidStateError
	var valErr *ai.ValidationError
	var typeErr *service.FileTypeError
	var sizeErr *service.FileSizeError

	switch {
	case errors.Is(err, service.ErrWorkspaceNotFound),
		errors.Is(err, service.ErrSupplierNotFound),
		errors.Is(err, service.ErrDocumentNotFound),
		errors.Is(err, service.ErrInvoiceNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidSupplier),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrQueryTooShort),
		errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrEmptyPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrWorkspaceNotEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Error(), "status": string(stateErr.Status)})

	case errors.As(err, &typeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": typeErr.Error()})

	case errors.As(err, &sizeErr):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": sizeErr.Error()})

	case errors.As(err, &valErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": valErr.Error(), "reason": valErr.Reason, "hint": valErr.Hint})

	case errors.Is(err, service.ErrSupplierMatch),
		errors.Is(err, service.ErrExtraction):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrGmailNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, gmail.ErrCredentialExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "gmail authorization expired, please reconnect"})

	case errors.Is(err, gmail.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "gmail quota exceeded, try again later"})

	case errors.Is(err, gmail.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "gmail is unavailable, try again later"})

	case errors.Is(err, service.ErrAIExtraction):
		slog.ErrorContext(ctx, "field extraction failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "invoice field extraction failed, try again later"})

	default:
		slog.ErrorContext(ctx, "unhandled service error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
