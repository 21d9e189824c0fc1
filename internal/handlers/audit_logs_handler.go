package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logger *audit.Logger
	tz     string
}

func NewAuditLogsHandler(logger *audit.Logger, tz string) *AuditLogsHandler {
	return &AuditLogsHandler{logger: logger, tz: tz}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	loc := timezone.Location(h.tz)

	from, err := parseDateQuery(c, "from", loc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	to, err := parseDateQuery(c, "to", loc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if to != nil {
		// inclui o dia inteiro
		end := to.AddDate(0, 0, 1)
		to = &end
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	q := audit.Query{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		From:   from,
		To:     to,
		Page:   page,
		Limit:  limit,
	}.Normalized()

	logs, total, err := h.logger.List(c.Request.Context(), q)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"page":  q.Page,
		"limit": q.Limit,
		"total": total,
		"logs":  logs,
	})
}
