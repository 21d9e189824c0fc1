package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
)

type RescheduleInput struct {
	ID        uint
	StartTime time.Time
	// ClientDni, quando informado, precisa bater com o da cita.
	ClientDni string
	AdminID   *uint
}

func (e *Engine) Reschedule(
	ctx context.Context,
	in RescheduleInput,
) (*models.Appointment, error) {

	if in.StartTime.IsZero() {
		return nil, errMissingFields
	}

	releaseID, err := e.lockAppointment(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	defer releaseID()

	// leitura sob o lock do id: nunca valida contra estado velho
	ap, err := e.load(ctx, in.ID, in.ClientDni)
	if err != nil {
		return nil, err
	}
	if err := domain.CanReschedule(domain.Status(ap.Status)); err != nil {
		return nil, err
	}
	if err := e.checkAdvance(in.StartTime); err != nil {
		return nil, err
	}

	// duração do serviço vinculado atualmente
	svc, err := e.services.Lookup(ctx, ap.ServiceID)
	if err != nil {
		return nil, err
	}
	iv, err := domain.NewInterval(in.StartTime, svc.DurationMin)
	if err != nil {
		return nil, err
	}

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
		e.record("appointment_conflict", in.AdminID, ap, map[string]any{
			"start_time": iv.Start.UTC(),
			"end_time":   iv.End.UTC(),
		})
		return nil, errTimeConflict
	}

	previous := ap.StartTime
	if err := domain.Reschedule(ap, iv); err != nil {
		return nil, err
	}
	if err := e.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}
	ap.Service = *svc

	e.record("appointment_rescheduled", in.AdminID, ap, map[string]any{
		"from": previous.UTC(),
		"to":   ap.StartTime.UTC(),
	})
	e.enqueue(notify.TemplateReschedule, ap)

	return ap, nil
}

// load busca a cita; com dni informado, divergência vira NotFound.
func (e *Engine) load(ctx context.Context, id uint, dni string) (*models.Appointment, error) {
	ap, err := e.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if dni != "" && ap.ClientDni != dni {
		return nil, errNotFound
	}
	return ap, nil
}
