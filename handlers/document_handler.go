package handlers

import (
	"fmt"
	"net/http"

	"ordermatch-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler serves uploaded order documents from comparison history
type DocumentHandler struct {
	comparisonService *service.ComparisonService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(comparisonService *service.ComparisonService) *DocumentHandler {
	return &DocumentHandler{comparisonService: comparisonService}
}

// GetDocument handles GET /api/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid document ID format.")
		return
	}

	doc, reader, err := h.comparisonService.GetDocument(c.Request.Context(), id)
	if err != nil {
		respondComparisonError(c, err)
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", doc.Filename),
		"X-Content-SHA256":    doc.SHA256,
	})
}
