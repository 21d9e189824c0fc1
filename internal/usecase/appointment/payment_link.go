package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/payment"
)

// PaymentLink gera o checkout do preço atual do serviço da cita.
func (e *Engine) PaymentLink(
	ctx context.Context,
	id uint,
	adminID *uint,
) (*payment.Link, error) {

	if e.payments == nil {
		return nil, payment.ErrDisabled
	}

	ap, err := e.repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.Status(ap.Status) == domain.StatusCancelled {
		return nil, httperr.ErrValidation("invalid_state")
	}

	link, err := e.payments.CreateLink(ctx, payment.Checkout{
		Reference:   fmt.Sprintf("appointment-%d", ap.ID),
		Title:       ap.Service.Name,
		Description: fmt.Sprintf("%s - %s", ap.ClientName, ap.StartTime.In(e.loc).Format("02/01 15:04")),
		Amount:      ap.Service.Price,
		PayerName:   ap.ClientName,
	})
	if err != nil {
		return nil, err
	}

	e.record("payment_link_created", adminID, ap, map[string]any{"preference_id": link.PreferenceID})
	return link, nil
}
