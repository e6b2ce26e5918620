package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"ordermatch-backend/models"
	"ordermatch-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	formPurchaseOrder = "purchase_order"
	formSalesOrder    = "sales_order"
)

var errFileTooLarge = errors.New("file too large")

// ComparisonHandler handles HTTP requests for order comparisons
type ComparisonHandler struct {
	comparisonService *service.ComparisonService
	maxFileSize       int64
}

// NewComparisonHandler creates a new comparison handler
func NewComparisonHandler(comparisonService *service.ComparisonService, maxFileSize int64) *ComparisonHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024 // 10MB
	}
	return &ComparisonHandler{
		comparisonService: comparisonService,
		maxFileSize:       maxFileSize,
	}
}

// CompareRecordsRequest represents the request body for comparing extracted records
type CompareRecordsRequest struct {
	PurchaseOrder *models.OrderRecord `json:"purchaseOrder" binding:"required"`
	SalesOrder    *models.OrderRecord `json:"salesOrder" binding:"required"`
}

// CreateComparison handles POST /api/comparisons
func (h *ComparisonHandler) CreateComparison(c *gin.Context) {
	// Two files plus multipart overhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*h.maxFileSize+1<<20)

	po, err := h.readDocument(c, formPurchaseOrder)
	if err != nil {
		h.respondUploadError(c, formPurchaseOrder, err)
		return
	}
	so, err := h.readDocument(c, formSalesOrder)
	if err != nil {
		h.respondUploadError(c, formSalesOrder, err)
		return
	}

	result, err := h.comparisonService.CompareDocuments(c.Request.Context(), service.CompareDocumentsRequest{
		PurchaseOrder: po,
		SalesOrder:    so,
	})
	if err != nil {
		respondComparisonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":     result.ID,
			"cached": result.Cached,
			"report": result.Report,
		},
	})
}

// CompareRecords handles POST /api/comparisons/records
func (h *ComparisonHandler) CompareRecords(c *gin.Context) {
	var req CompareRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request body must contain purchaseOrder and salesOrder records.")
		return
	}

	result, err := h.comparisonService.CompareRecords(c.Request.Context(), req.PurchaseOrder, req.SalesOrder)
	if err != nil {
		respondComparisonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":     result.ID,
			"report": result.Report,
		},
	})
}

// GetComparison handles GET /api/comparisons/:id
func (h *ComparisonHandler) GetComparison(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid comparison ID format.")
		return
	}

	cmp, err := h.comparisonService.GetComparison(c.Request.Context(), id)
	if err != nil {
		respondComparisonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cmp,
	})
}

// ListComparisons handles GET /api/comparisons
func (h *ComparisonHandler) ListComparisons(c *gin.Context) {
	limit := service.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "Limit must be a positive integer.")
			return
		}
		limit = n
	}

	runs, err := h.comparisonService.ListComparisons(c.Request.Context(), limit)
	if err != nil {
		respondComparisonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    runs,
	})
}

// ListDocuments handles GET /api/comparisons/:id/documents
func (h *ComparisonHandler) ListDocuments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid comparison ID format.")
		return
	}

	docs, err := h.comparisonService.ListDocuments(c.Request.Context(), id)
	if err != nil {
		respondComparisonError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    docs,
	})
}

func (h *ComparisonHandler) readDocument(c *gin.Context, field string) (models.Document, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return models.Document{}, err
	}
	if fileHeader.Size > h.maxFileSize {
		return models.Document{}, errFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.Document{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return models.Document{}, err
	}
	if int64(len(data)) > h.maxFileSize {
		return models.Document{}, errFileTooLarge
	}

	return models.Document{
		Name:     fileHeader.Filename,
		MIMEHint: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func (h *ComparisonHandler) respondUploadError(c *gin.Context, field string, err error) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.Is(err, errFileTooLarge), errors.As(err, &maxErr):
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
			fmt.Sprintf("The %s file exceeds the %d MB limit.", field, h.maxFileSize>>20))
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, multipart.ErrMessageTooLarge), errors.Is(err, http.ErrNotMultipart):
		respondError(c, http.StatusBadRequest, "MISSING_FILE",
			fmt.Sprintf("Upload both %s and %s as multipart files.", formPurchaseOrder, formSalesOrder))
	default:
		respondError(c, http.StatusBadRequest, "INVALID_UPLOAD", fmt.Sprintf("The %s file could not be read.", field))
	}
}
