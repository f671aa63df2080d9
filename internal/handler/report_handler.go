package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/od-portal-api/internal/middleware"
	"github.com/noah-isme/od-portal-api/internal/service"
	"github.com/noah-isme/od-portal-api/pkg/response"
)

// ReportHandler exposes admin reporting endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Summary godoc
// @Summary OD request summary
// @Description Counts by status, department and category, scoped to the admin's department.
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	scope, _ := middleware.AdminScope(c)

	summary, err := h.service.Summary(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}

// Export godoc
// @Summary Export OD requests
// @Description Download all matching OD requests as a CSV or PDF attachment.
// @Tags Reports
// @Produce text/csv
// @Param format query string false "Export format (csv or pdf)"
// @Success 200 {file} file
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	scope, _ := middleware.AdminScope(c)
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	result, err := h.service.Export(c.Request.Context(), scope, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}
