package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func IntervalOf(ap *models.Appointment) Interval {
	return Interval{Start: ap.StartTime, End: ap.EndTime}
}

// Cancel é idempotente; retorna false quando já estava cancelado.
func Cancel(ap *models.Appointment, now time.Time) bool {
	if Status(ap.Status) == StatusCancelled {
		return false
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return true
}

func Complete(ap *models.Appointment, now time.Time) bool {
	if Status(ap.Status) == StatusCompleted {
		return false
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	ap.CancelledAt = nil
	return true
}

func Reschedule(ap *models.Appointment, iv Interval) error {
	if err := CanReschedule(Status(ap.Status)); err != nil {
		return err
	}

	ap.StartTime = iv.Start
	ap.EndTime = iv.End
	return nil
}

// AnyConflict aplica o predicado de sobreposição em memória.
func AnyConflict(
	candidate Interval,
	existing []models.Appointment,
	excludeID uint,
	policy Policy,
) bool {
	for i := range existing {
		ap := &existing[i]
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}
		if !policy.Blocks(Status(ap.Status)) {
			continue
		}
		if candidate.Overlaps(IntervalOf(ap)) {
			return true
		}
	}
	return false
}
