package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"finsight-backend/report"
	"finsight-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExportHandler handles HTTP requests for exporting analysis results
type ExportHandler struct {
	analysisService *service.AnalysisService
}

// NewExportHandler creates a new export handler
func NewExportHandler(analysisService *service.AnalysisService) *ExportHandler {
	return &ExportHandler{analysisService: analysisService}
}

// ExportResults handles POST /api/analyses/:id/export
func (h *ExportHandler) ExportResults(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid analysis ID format",
			},
		})
		return
	}

	var reqBody struct {
		Format string `json:"format"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil || reqBody.Format == "" {
		reqBody.Format = string(report.FormatJSON)
	}
	format := report.Format(strings.ToLower(reqBody.Format))

	result, err := h.analysisService.GetAnalysis(c.Request.Context(), service.GetAnalysisRequest{
		AnalysisID: id,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis not found",
			},
		})
		return
	}

	export, err := report.Build(result.ViewModel, format, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FORMAT",
				"message": err.Error(),
			},
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename))
	c.Data(http.StatusOK, export.MimeType, export.Content)
}

// GenerateReport handles POST /api/analyses/:id/report
func (h *ExportHandler) GenerateReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid analysis ID format",
			},
		})
		return
	}

	result, err := h.analysisService.GetAnalysis(c.Request.Context(), service.GetAnalysisRequest{
		AnalysisID: id,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis not found",
			},
		})
		return
	}

	export, err := report.BuildHTMLReport(result.ViewModel, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REPORT_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename))
	c.Data(http.StatusOK, export.MimeType, export.Content)
}

// ListFormats handles GET /api/export/formats
func (h *ExportHandler) ListFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"formats": report.SupportedFormats(),
		},
	})
}
