package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
)

func (e *Engine) Complete(
	ctx context.Context,
	in ActionInput,
) (*models.Appointment, error) {

	releaseID, err := e.lockAppointment(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	defer releaseID()

	ap, err := e.load(ctx, in.ID, in.ClientDni)
	if err != nil {
		return nil, err
	}

	current := domain.Status(ap.Status)
	if current == domain.StatusCompleted {
		return ap, nil
	}

	// uma cita cancelada volta a reservar o horário: revalida o intervalo
	if !e.policy.Blocks(current) && e.policy.Blocks(domain.StatusCompleted) {
		iv := domain.IntervalOf(ap)

		release, err := e.lockInterval(ctx, iv)
		if err != nil {
			return nil, err
		}
		defer release()

		conflict, err := e.HasConflict(ctx, iv, ap.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, errTimeConflict
		}
	}

	domain.Complete(ap, e.now())
	if err := e.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	e.record("appointment_completed", in.AdminID, ap, nil)
	e.enqueue(notify.TemplateCompleted, ap)

	return ap, nil
}
