package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/dto"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/catalog"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	engine  *appointment.Engine
	catalog *catalog.Catalog
}

func NewPublicHandler(engine *appointment.Engine, cat *catalog.Catalog) *PublicHandler {
	return &PublicHandler{engine: engine, catalog: cat}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	ClientName  string `json:"client_name"`
	ClientDni   string `json:"client_dni"`
	ClientPhone string `json:"client_phone"`
	ServiceID   uint   `json:"service_id"`
	StartTime   string `json:"start_time"` // RFC3339 ou 2006-01-02T15:04 local
}

type PublicRescheduleRequest struct {
	ClientDni string `json:"client_dni" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
}

type PublicCancelRequest struct {
	ClientDni string `json:"client_dni" binding:"required"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	services, err := h.catalog.List(c.Request.Context(), false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, services)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	loc := h.engine.Location()

	date, err := timezone.ParseDate(strings.TrimSpace(c.Query("date")), loc)
	if err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_date"))
		return
	}

	in := domain.AvailabilityInput{Date: date}

	if v := c.Query("service_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.Respond(c, httperr.ErrValidation("invalid_request"))
			return
		}
		in.ServiceID = uint(id)
	}
	if v := c.Query("granularity"); v != "" {
		g, err := strconv.Atoi(v)
		if err != nil || g <= 0 {
			httperr.Respond(c, httperr.ErrValidation("invalid_granularity"))
			return
		}
		in.GranularityMin = g
	}

	slots, err := h.engine.Availability(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"date":  date.Format("2006-01-02"),
		"slots": slots,
	})
}

////////////////////////////////////////////////////////
// APPOINTMENTS
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_request"))
		return
	}

	loc := h.engine.Location()
	start, err := parseStartTime(req.StartTime, loc)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.engine.Create(c.Request.Context(), appointment.CreateInput{
		Client: domain.ClientInfo{
			Name:  req.ClientName,
			Dni:   req.ClientDni,
			Phone: req.ClientPhone,
		},
		ServiceID: req.ServiceID,
		StartTime: start,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.FromAppointment(ap, loc))
}

func (h *PublicHandler) ListByDni(c *gin.Context) {
	apps, err := h.engine.ListByDni(c.Request.Context(), c.Param("dni"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.FromAppointments(apps, h.engine.Location()))
}

func (h *PublicHandler) Reschedule(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req PublicRescheduleRequest
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
		ClientDni: strings.TrimSpace(req.ClientDni),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap, loc))
}

func (h *PublicHandler) Cancel(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req PublicCancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrValidation("missing_fields"))
		return
	}

	ap, err := h.engine.Cancel(c.Request.Context(), appointment.ActionInput{
		ID:        id,
		ClientDni: strings.TrimSpace(req.ClientDni),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.FromAppointment(ap, h.engine.Location()))
}
