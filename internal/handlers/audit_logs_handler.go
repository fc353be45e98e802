package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *audit.Logger
}

func NewAuditLogsHandler(logs *audit.Logger) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	// --------------------------------------------------
	// Filters (always scoped to the caller's business)
	// --------------------------------------------------

	f := audit.Filter{
		BusinessID: middleware.Identity(c).BusinessID,
		Action:     c.Query("action"),
		Entity:     c.Query("entity"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	}

	var err error
	if f.From, err = parseDayOrInstant("from", c.Query("from"), false); err != nil {
		respondError(c, err)
		return
	}
	if f.To, err = parseDayOrInstant("to", c.Query("to"), true); err != nil {
		respondError(c, err)
		return
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	httpresp.Page(c, logs, page, limit, total)
}
