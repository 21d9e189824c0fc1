package catalog

import (
	"context"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type Repository interface {
	GetService(ctx context.Context, id uint) (*models.Service, error)
	ListServices(ctx context.Context, includeInactive bool) ([]models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	SaveService(ctx context.Context, s *models.Service) error
	CountAppointmentsForService(ctx context.Context, id uint) (int64, error)
	DeleteService(ctx context.Context, id uint) error
}
