package appointment

import (
	"strings"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func InitialStatus() Status {
	return StatusPending
}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusPending, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

// ===============================
// Policy
// ===============================

// Policy define quais status reservam o horário.
type Policy struct {
	CompletedBlocksSlot bool
}

func (p Policy) Blocks(s Status) bool {
	switch s {
	case StatusPending:
		return true
	case StatusCompleted:
		return p.CompletedBlocksSlot
	}
	return false
}

func (p Policy) BlockingStatuses() []Status {
	if p.CompletedBlocksSlot {
		return []Status{StatusPending, StatusCompleted}
	}
	return []Status{StatusPending}
}

// ===============================
// Validations
// ===============================

func CanReschedule(current Status) error {
	if current != StatusPending {
		return httperr.ErrValidation("invalid_state")
	}
	return nil
}
