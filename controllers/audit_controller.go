package controllers

import (
	"net/http"
	"strconv"

	"item-audit-api/models"
	"item-audit-api/repositories"
)

// AuditLogController exposes the recorded audit entries
type AuditLogController struct {
	audit repositories.AuditRepository
}

// NewAuditLogController creates a new audit log controller
func NewAuditLogController(audit repositories.AuditRepository) *AuditLogController {
	return &AuditLogController{audit: audit}
}

// List handles GET /audit_log/ with optional path, method, status_code and
// user_id filters, all exact-match and ANDed.
func (c *AuditLogController) List(w http.ResponseWriter, r *http.Request) {
	filter := models.AuditLogFilter{
		Path:   r.URL.Query().Get("path"),
		Method: r.URL.Query().Get("method"),
	}

	if raw := r.URL.Query().Get("status_code"); raw != "" {
		statusCode, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid status_code filter")
			return
		}
		filter.StatusCode = &statusCode
	}

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user_id filter")
			return
		}
		filter.UserID = &userID
	}

	entries, err := c.audit.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list audit log entries")
		return
	}

	if entries == nil {
		entries = []models.AuditLogEntry{}
	}

	writeJSON(w, http.StatusOK, entries)
}
