package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plbureau/labplanner-api/internal/dto"
	"github.com/plbureau/labplanner-api/internal/models"
	"github.com/plbureau/labplanner-api/internal/service"
	appErrors "github.com/plbureau/labplanner-api/pkg/errors"
	"github.com/plbureau/labplanner-api/pkg/response"
)

type reportJobService interface {
	CreateJob(ctx context.Context, req dto.ReportRequest) (*dto.ReportJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler exposes report job endpoints and export downloads.
type ReportHandler struct {
	reports reportJobService
}

// NewReportHandler constructs a new ReportHandler.
func NewReportHandler(reports reportJobService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GenerateReport godoc
// @Summary Queue a report generation job
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Report request"
// @Success 202 {object} response.Envelope
// @Router /reports/generate [post]
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report payload"))
		return
	}
	job, err := h.reports.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// ReportStatus godoc
// @Summary Get report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/status/{id} [get]
func (h *ReportHandler) ReportStatus(c *gin.Context) {
	status, err := h.reports.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// DownloadReport godoc
// @Summary Download a generated export
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ReportHandler) DownloadReport(c *gin.Context) {
	download, err := h.reports.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	contentType := "text/csv"
	if download.Format == models.ReportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, download.File); err != nil {
		_ = c.Error(err)
	}
}
