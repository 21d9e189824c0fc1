package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

const maxGranularityMin = 24 * 60

// Availability lista os horários do dia com a marca de ocupado.
// É só orientação para a tela; a checagem que vale é a do Create.
func (e *Engine) Availability(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	if in.Date.IsZero() {
		return nil, httperr.ErrValidation("invalid_date")
	}

	granularity := in.GranularityMin
	if granularity == 0 {
		granularity = e.granularity
	}
	if granularity < 0 || granularity > maxGranularityMin {
		return nil, httperr.ErrValidation("invalid_granularity")
	}

	slotDuration := time.Duration(granularity) * time.Minute
	if in.ServiceID != 0 {
		svc, err := e.services.Lookup(ctx, in.ServiceID)
		if err != nil {
			return nil, err
		}
		slotDuration = time.Duration(svc.DurationMin) * time.Minute
	}

	d := in.Date.In(e.loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, e.loc)

	dayStart, dayEnd, err := e.workday.Bounds(day)
	if err != nil {
		return nil, err
	}

	existing, err := e.repo.ListBlockingInRange(
		ctx,
		dayStart,
		dayEnd,
		e.policy.BlockingStatuses(),
	)
	if err != nil {
		return nil, err
	}

	step := time.Duration(granularity) * time.Minute
	slots := []domain.TimeSlot{}

	for cur := dayStart; !cur.Add(slotDuration).After(dayEnd); cur = cur.Add(step) {
		iv := domain.Interval{Start: cur, End: cur.Add(slotDuration)}

		slots = append(slots, domain.TimeSlot{
			Time:  cur.Format("15:04"),
			Start: iv.Start,
			End:   iv.End,
			Taken: domain.AnyConflict(iv, existing, 0, e.policy),
		})
	}

	return slots, nil
}
