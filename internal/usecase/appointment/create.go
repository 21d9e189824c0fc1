package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
)

type CreateInput struct {
	Client    domain.ClientInfo
	ServiceID uint
	StartTime time.Time
}

func (e *Engine) Create(
	ctx context.Context,
	in CreateInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Campos obrigatórios + DNI / celular
	// --------------------------------------------------
	client := in.Client.Normalize()
	if err := client.Validate(); err != nil {
		return nil, err
	}
	if in.ServiceID == 0 || in.StartTime.IsZero() {
		return nil, errMissingFields
	}
	if err := e.checkAdvance(in.StartTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Serviço → intervalo
	// --------------------------------------------------
	svc, err := e.services.Lookup(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !svc.Active {
		return nil, errServiceInactive
	}

	iv, err := domain.NewInterval(in.StartTime, svc.DurationMin)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Conflito + criação sob o lock dos dias
	// --------------------------------------------------
	release, err := e.lockInterval(ctx, iv)
	if err != nil {
		return nil, err
	}
	defer release()

	conflict, err := e.HasConflict(ctx, iv, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		e.record("appointment_conflict", nil, nil, map[string]any{
			"service_id": svc.ID,
			"start_time": iv.Start.UTC(),
			"end_time":   iv.End.UTC(),
		})
		return nil, errTimeConflict
	}

	ap := &models.Appointment{
		ClientName:  client.Name,
		ClientDni:   client.Dni,
		ClientPhone: client.Phone,
		ServiceID:   svc.ID,
		StartTime:   iv.Start,
		EndTime:     iv.End,
		Status:      string(domain.InitialStatus()),
	}

	if err := e.repo.CreateAppointment(ctx, ap); err != nil {
		if isTimeConflict(err) {
			e.record("appointment_conflict", nil, nil, map[string]any{"service_id": svc.ID})
		}
		return nil, err
	}
	ap.Service = *svc

	// --------------------------------------------------
	// 4️⃣ Auditoria + notificação (fire-and-forget)
	// --------------------------------------------------
	e.record("appointment_created", nil, ap, map[string]any{"client_dni": ap.ClientDni})
	e.enqueue(notify.TemplateConfirm, ap)

	return ap, nil
}
