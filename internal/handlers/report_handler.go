package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
)

type ReportHandler struct {
	engine *appointment.Engine
}

func NewReportHandler(engine *appointment.Engine) *ReportHandler {
	return &ReportHandler{engine: engine}
}

// Revenue usa hoje quando from/to não vêm; to padrão = from.
func (h *ReportHandler) Revenue(c *gin.Context) {
	loc := h.engine.Location()

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

	if from == nil {
		now := time.Now().In(loc)
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		from = &today
	}
	if to == nil {
		to = from
	}

	report, err := h.engine.Revenue(c.Request.Context(), *from, *to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, report)
}
