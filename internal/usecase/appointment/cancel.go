package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
)

type ActionInput struct {
	ID        uint
	ClientDni string
	AdminID   *uint
}

// Cancel é idempotente: cancelar de novo devolve a cita sem efeitos.
func (e *Engine) Cancel(
	ctx context.Context,
	in ActionInput,
) (*models.Appointment, error) {

	release, err := e.lockAppointment(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	ap, err := e.load(ctx, in.ID, in.ClientDni)
	if err != nil {
		return nil, err
	}

	if !domain.Cancel(ap, e.now()) {
		return ap, nil
	}

	if err := e.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	e.record("appointment_cancelled", in.AdminID, ap, nil)
	e.enqueue(notify.TemplateCancel, ap)

	return ap, nil
}
