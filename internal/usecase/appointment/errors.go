package appointment

import "github.com/BruksfildServices01/barber-agenda/internal/httperr"

var (
	errMissingFields   = httperr.ErrValidation("missing_fields")
	errTooSoon         = httperr.ErrValidation("too_soon")
	errServiceInactive = httperr.ErrValidation("service_inactive")
	errTimeConflict    = httperr.ErrConflict("time_conflict")
	errSlotBusy        = httperr.ErrConflict("slot_busy")
	errNotFound        = httperr.ErrNotFound("appointment_not_found")
)

func isTimeConflict(err error) bool {
	return httperr.IsBusiness(err, "time_conflict")
}
