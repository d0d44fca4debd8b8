package handler

import (
	"log/slog"
	"net/http"

	"launchit/internal/domain/models"
	"launchit/internal/domain/services"
	"launchit/internal/httputil"
	"launchit/internal/moderation"
)

// ReportHandler handles abuse report HTTP requests
type ReportHandler struct {
	reportService services.ReportService
	catalog       *moderation.Catalog
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService services.ReportService, catalog *moderation.Catalog, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		catalog:       catalog,
		logger:        logger,
	}
}

// ReportComment files a report against a comment
// POST /api/comments/{id}/reports
func (h *ReportHandler) ReportComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id", "comment ID")
	if !ok {
		return
	}

	var req services.ReportCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondParseError(w, err)
		return
	}
	req.CommentID = commentID

	report, err := h.reportService.ReportComment(r.Context(), httputil.GetActor(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, report)
}

// ListReasons returns the report reason catalog
// GET /api/reports/reasons
func (h *ReportHandler) ListReasons(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.catalog.Reasons())
}

// ListReports returns reports for admin review
// GET /api/admin/reports?status=open
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	var status *models.ReportStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.ReportStatus(raw)
		status = &s
	}

	reports, err := h.reportService.ListReports(r.Context(), httputil.GetActor(r), status)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, reports)
}

// ResolveReport closes an open report
// POST /api/admin/reports/{id}/resolve
func (h *ReportHandler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	reportID, ok := pathID(w, r, "id", "report ID")
	if !ok {
		return
	}

	report, err := h.reportService.ResolveReport(r.Context(), httputil.GetActor(r), reportID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}
