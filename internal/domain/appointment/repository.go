package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type Filter struct {
	From      *time.Time
	To        *time.Time
	ClientDni string
	Status    Status
	// NewestFirst inverte a ordenação por início.
	NewestFirst bool
}

type Repository interface {
	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	HasConflict(
		ctx context.Context,
		candidate Interval,
		excludeID uint,
		statuses []Status,
	) (bool, error)

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Queries --------
	ListAppointments(
		ctx context.Context,
		filter Filter,
	) ([]models.Appointment, error)

	ListBlockingInRange(
		ctx context.Context,
		start time.Time,
		end time.Time,
		statuses []Status,
	) ([]models.Appointment, error)
}

// ServiceLookup resolve a duração e o preço de um serviço.
type ServiceLookup interface {
	Lookup(ctx context.Context, id uint) (*models.Service, error)
}
