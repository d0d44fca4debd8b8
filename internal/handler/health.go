package handler

import (
	"net/http"

	"launchit/internal/httputil"
)

// HealthCheck reports that the server is up
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
