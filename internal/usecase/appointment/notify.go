package appointment

import (
	"context"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
)

// Resend reenfileira uma mensagem manual para o cliente da cita.
func (e *Engine) Resend(
	ctx context.Context,
	id uint,
	tmpl notify.Template,
	adminID *uint,
) (*models.Appointment, error) {

	if _, err := notify.ParseTemplate(string(tmpl)); err != nil {
		return nil, err
	}

	ap, err := e.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	e.enqueue(tmpl, ap)
	e.record("appointment_notified", adminID, ap, map[string]any{"template": tmpl})

	return ap, nil
}
