package dto

import (
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type AppointmentDTO struct {
	ID           uint       `json:"id"`
	ClientName   string     `json:"client_name"`
	ClientDni    string     `json:"client_dni"`
	ClientPhone  string     `json:"client_phone"`
	ServiceID    uint       `json:"service_id"`
	ServiceName  string     `json:"service_name"`
	ServicePrice float64    `json:"service_price"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      time.Time  `json:"end_time"`
	Status       string     `json:"status"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FromAppointment converte horários para o fuso da barbearia.
func FromAppointment(ap *models.Appointment, loc *time.Location) AppointmentDTO {
	return AppointmentDTO{
		ID:           ap.ID,
		ClientName:   ap.ClientName,
		ClientDni:    ap.ClientDni,
		ClientPhone:  ap.ClientPhone,
		ServiceID:    ap.ServiceID,
		ServiceName:  ap.Service.Name,
		ServicePrice: ap.Service.Price,
		StartTime:    ap.StartTime.In(loc),
		EndTime:      ap.EndTime.In(loc),
		Status:       ap.Status,
		CancelledAt:  ap.CancelledAt,
		CompletedAt:  ap.CompletedAt,
		CreatedAt:    ap.CreatedAt,
	}
}

func FromAppointments(apps []models.Appointment, loc *time.Location) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(apps))
	for i := range apps {
		out = append(out, FromAppointment(&apps[i], loc))
	}
	return out
}
