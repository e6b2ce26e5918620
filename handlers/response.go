package handlers

import (
	"errors"
	"net/http"

	"ordermatch-backend/comparison"
	"ordermatch-backend/logger"
	"ordermatch-backend/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondComparisonError maps comparison failures to a status, a code and a single-sentence message.
// Raw causes are logged, never returned.
func respondComparisonError(c *gin.Context, err error) {
	var exErr *comparison.ExtractionError
	var vErr *comparison.ValidationError

	switch {
	case errors.As(err, &exErr):
		respondError(c, http.StatusUnprocessableEntity, "EXTRACTION_FAILED", exErr.UserMessage())
	case errors.As(err, &vErr):
		respondError(c, http.StatusUnprocessableEntity, "VALIDATION_FAILED", vErr.UserMessage())
	case errors.Is(err, service.ErrComparisonNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Comparison not found.")
	case errors.Is(err, service.ErrDocumentNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Document not found.")
	case errors.Is(err, service.ErrHistoryDisabled):
		respondError(c, http.StatusNotFound, "HISTORY_DISABLED", "Comparison history is not enabled on this server.")
	default:
		logger.FromContext(c.Request.Context()).Error("Comparison request failed", "error", err)
		respondError(c, http.StatusInternalServerError, "COMPARISON_FAILED", "The comparison could not be completed.")
	}
}
