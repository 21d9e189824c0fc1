package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/middleware"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/catalog"
)

const maxImageBytes = 5 << 20

type ServiceHandler struct {
	catalog *catalog.Catalog
}

func NewServiceHandler(cat *catalog.Catalog) *ServiceHandler {
	return &ServiceHandler{catalog: cat}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string  `json:"name"`
	DurationMin int     `json:"duration_min"`
	Price       float64 `json:"price"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty"`
	DurationMin *int     `json:"duration_min,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	includeInactive := c.DefaultQuery("include_inactive", "true") != "false"

	services, err := h.catalog.List(c.Request.Context(), includeInactive)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_request"))
		return
	}

	s, err := h.catalog.Create(c.Request.Context(), domain.CreateInput{
		Name:        req.Name,
		DurationMin: req.DurationMin,
		Price:       req.Price,
	}, middleware.AdminID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_request"))
		return
	}

	s, err := h.catalog.Update(c.Request.Context(), id, domain.UpdateInput{
		Name:        req.Name,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Active:      req.Active,
	}, middleware.AdminID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ServiceHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id, middleware.AdminID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) UploadImage(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_image"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, httperr.ErrValidation("invalid_image"))
		return
	}
	defer f.Close()

	s, err := h.catalog.SetImage(c.Request.Context(), id, f, middleware.AdminID(c))
	if errors.Is(err, catalog.ErrStorageDisabled) {
		httperr.Unavailable(c, "storage_unavailable", "Almacenamiento de imágenes no configurado.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}
