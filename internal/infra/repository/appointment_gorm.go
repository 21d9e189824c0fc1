package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	normalize(ap)
	return translateWrite(r.db.WithContext(ctx).Omit("Service").Create(ap).Error)
}

func (r *AppointmentGormRepository) HasConflict(
	ctx context.Context,
	candidate domain.Interval,
	excludeID uint,
	statuses []domain.Status,
) (bool, error) {

	iv := candidate.UTC()

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"status IN ? AND start_time < ? AND end_time > ?",
			statuses,
			iv.End,
			iv.Start,
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		First(&ap, id).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	normalize(ap)
	return translateWrite(r.db.WithContext(ctx).Omit("Service").Save(ap).Error)
}

// --------------------------------------------------
// Queries
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Preload("Service")

	if f.From != nil {
		q = q.Where("start_time >= ?", f.From.UTC())
	}
	if f.To != nil {
		q = q.Where("start_time < ?", f.To.UTC())
	}
	if f.ClientDni != "" {
		q = q.Where("client_dni = ?", f.ClientDni)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	order := "start_time ASC, id ASC"
	if f.NewestFirst {
		order = "start_time DESC, id DESC"
	}

	var apps []models.Appointment
	if err := q.Order(order).Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// ListBlockingInRange retorna os agendamentos que tocam [start, end).
func (r *AppointmentGormRepository) ListBlockingInRange(
	ctx context.Context,
	start time.Time,
	end time.Time,
	statuses []domain.Status,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"status IN ? AND start_time < ? AND end_time > ?",
			statuses, end.UTC(), start.UTC(),
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// horários sempre em UTC no banco
func normalize(ap *models.Appointment) {
	ap.StartTime = ap.StartTime.UTC()
	ap.EndTime = ap.EndTime.UTC()
}

func translateWrite(err error) error {
	if err == nil {
		return nil
	}
	if httperr.IsExclusionConflict(err) {
		return httperr.ErrConflict("time_conflict")
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
