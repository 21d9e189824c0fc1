package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

func (e *Engine) List(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		return nil, httperr.ErrValidation("invalid_range")
	}
	return e.repo.ListAppointments(ctx, f)
}

// ListByDni devolve o histórico do cliente, mais recentes primeiro.
func (e *Engine) ListByDni(
	ctx context.Context,
	dni string,
) ([]models.Appointment, error) {

	dni = strings.TrimSpace(dni)
	if !validators.IsDni(dni) {
		return nil, httperr.ErrValidation("invalid_dni")
	}
	return e.repo.ListAppointments(ctx, domain.Filter{
		ClientDni:   dni,
		NewestFirst: true,
	})
}
