package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/imaging"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/storage"
)

var ErrStorageDisabled = errors.New("image storage disabled")

type Auditor interface {
	Dispatch(ev audit.Event)
}

// Catalog resolve serviços para a agenda e administra o catálogo.
type Catalog struct {
	repo   domain.Repository
	images storage.ImageStore
	audit  Auditor
}

func New(repo domain.Repository, images storage.ImageStore, a Auditor) *Catalog {
	return &Catalog{repo: repo, images: images, audit: a}
}

// Lookup ignora o flag active: citas antigas continuam resolvendo o serviço.
func (c *Catalog) Lookup(ctx context.Context, id uint) (*models.Service, error) {
	return c.repo.GetService(ctx, id)
}

func (c *Catalog) List(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	return c.repo.ListServices(ctx, includeInactive)
}

func (c *Catalog) Create(
	ctx context.Context,
	in domain.CreateInput,
	adminID *uint,
) (*models.Service, error) {

	if err := in.Validate(); err != nil {
		return nil, err
	}

	s := &models.Service{
		Name:        strings.TrimSpace(in.Name),
		DurationMin: in.DurationMin,
		Price:       in.Price,
		Active:      true,
	}
	if err := c.repo.CreateService(ctx, s); err != nil {
		return nil, err
	}

	c.record("service_created", adminID, s.ID, nil)
	return s, nil
}

func (c *Catalog) Update(
	ctx context.Context,
	id uint,
	in domain.UpdateInput,
	adminID *uint,
) (*models.Service, error) {

	s, err := c.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Apply(s); err != nil {
		return nil, err
	}
	if err := c.repo.SaveService(ctx, s); err != nil {
		return nil, err
	}

	c.record("service_updated", adminID, s.ID, nil)
	return s, nil
}

// Delete falha com Conflict se alguma cita referencia o serviço.
func (c *Catalog) Delete(ctx context.Context, id uint, adminID *uint) error {
	if _, err := c.repo.GetService(ctx, id); err != nil {
		return err
	}

	n, err := c.repo.CountAppointmentsForService(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.ErrConflict("service_in_use")
	}

	// a FK ainda protege contra uma cita criada entre a contagem e o delete
	if err := c.repo.DeleteService(ctx, id); err != nil {
		return err
	}

	c.record("service_deleted", adminID, id, nil)
	return nil
}

func (c *Catalog) SetImage(
	ctx context.Context,
	id uint,
	r io.Reader,
	adminID *uint,
) (*models.Service, error) {

	if c.images == nil {
		return nil, ErrStorageDisabled
	}

	s, err := c.repo.GetService(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := imaging.ToWebP(r, imaging.MaxSide, imaging.DefaultQuality)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("services/%d/%s.webp", s.ID, uuid.NewString())
	url, err := c.images.Put(ctx, key, body, "image/webp")
	if err != nil {
		return nil, err
	}

	s.ImageURL = url
	if err := c.repo.SaveService(ctx, s); err != nil {
		return nil, err
	}

	c.record("service_image_updated", adminID, s.ID, map[string]string{"url": url})
	return s, nil
}

func (c *Catalog) record(action string, adminID *uint, serviceID uint, meta any) {
	if c.audit == nil {
		return
	}
	id := serviceID
	c.audit.Dispatch(audit.Event{
		AdminID:  adminID,
		Action:   action,
		Entity:   "service",
		EntityID: &id,
		Metadata: meta,
	})
}
