package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
	"github.com/BruksfildServices01/barber-agenda/internal/payment"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
)

// ======================================================
// HANDLER (agenda do administrador)
// ======================================================

type AppointmentHandler struct {
	engine *appointment.Engine
}

func NewAppointmentHandler(engine *appointment.Engine) *AppointmentHandler {
	return &AppointmentHandler{engine: engine}
}

// ======================================================
// REQUESTS
// ======================================================

type AdminRescheduleRequest struct {
	StartTime string `json:"start_time" binding:"required"`
}

type NotifyRequest struct {
	Type string `json:"type" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

// List aceita from/to (YYYY-MM-DD, dias inteiros), dni e status.
func (h *AppointmentHandler) List(c *gin.Context) {
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

	f := domain.Filter{ClientDni: strings.TrimSpace(c.Query("dni"))}

	switch {
	case from != nil && to != nil:
		start, end := timezone.DayRange(*from, *to)
		f.From, f.To = &start, &end
	case from != nil:
		f.From = from
	case to != nil:
		_, end := timezone.DayRange(*to, *to)
		f.To = &end
	}

	if s := c.Query("status"); s != "" {
		st, err := domain.ParseStatus(s)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		f.Status = st
	}

	apps, err := h.engine.List(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.FromAppointments(apps, loc))
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req AdminRescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrValidation("missing_fields"))
		return
	}

	loc := h.engine.Location()
	start, err := parseStartTime(req.StartTime, loc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.engine.Reschedule(c.Request.Context(), appointment.RescheduleInput{
		ID:        id,
		StartTime: start,
		AdminID:   middleware.AdminID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap, loc))
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.engine.Cancel)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.engine.Complete)
}

func (h *AppointmentHandler) transition(
	c *gin.Context,
	op func(context.Context, appointment.ActionInput) (*models.Appointment, error),
) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := op(c.Request.Context(), appointment.ActionInput{
		ID:      id,
		AdminID: middleware.AdminID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap, h.engine.Location()))
}

// ======================================================
// SIDE CHANNELS
// ======================================================

func (h *AppointmentHandler) Notify(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req NotifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_template"))
		return
	}
	tmpl, err := notify.ParseTemplate(req.Type)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.engine.Resend(c.Request.Context(), id, tmpl, middleware.AdminID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"appointment_id": ap.ID,
		"type":           tmpl,
		"queued":         true,
	})
}

func (h *AppointmentHandler) PaymentLink(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	link, err := h.engine.PaymentLink(c.Request.Context(), id, middleware.AdminID(c))
	if errors.Is(err, payment.ErrDisabled) {
		httperr.Unavailable(c, "payment_unavailable", "Pagos no configurados.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, link)
}
