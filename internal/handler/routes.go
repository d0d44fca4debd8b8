package handler

import "net/http"

// RegisterRoutes mounts the public API on mux
func RegisterRoutes(mux *http.ServeMux, comments *CommentHandler, reports *ReportHandler) {
	mux.HandleFunc("GET /health", HealthCheck)

	// Comment threads
	mux.HandleFunc("GET /api/projects/{id}/comments", comments.GetThread)
	mux.HandleFunc("GET /api/projects/{id}/comments/count", comments.CountComments)
	mux.HandleFunc("POST /api/projects/{id}/comments", comments.CreateComment)
	mux.HandleFunc("DELETE /api/comments/{id}", comments.DeleteComment)

	// Reports
	mux.HandleFunc("POST /api/comments/{id}/reports", reports.ReportComment)
	mux.HandleFunc("GET /api/reports/reasons", reports.ListReasons)
	mux.HandleFunc("GET /api/admin/reports", reports.ListReports)
	mux.HandleFunc("POST /api/admin/reports/{id}/resolve", reports.ResolveReport)
}
