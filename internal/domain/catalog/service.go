package catalog

import (
	"strings"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

type CreateInput struct {
	Name        string
	DurationMin int
	Price       float64
}

// UpdateInput é parcial: campos nil não mudam.
type UpdateInput struct {
	Name        *string
	DurationMin *int
	Price       *float64
	Active      *bool
}

func (in CreateInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return httperr.ErrValidation("invalid_name")
	}
	if in.DurationMin <= 0 {
		return httperr.ErrValidation("invalid_duration")
	}
	if in.Price < 0 {
		return httperr.ErrValidation("invalid_price")
	}
	return nil
}

func (in UpdateInput) Apply(s *models.Service) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return httperr.ErrValidation("invalid_name")
		}
		s.Name = name
	}
	if in.DurationMin != nil {
		if *in.DurationMin <= 0 {
			return httperr.ErrValidation("invalid_duration")
		}
		s.DurationMin = *in.DurationMin
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return httperr.ErrValidation("invalid_price")
		}
		s.Price = *in.Price
	}
	if in.Active != nil {
		s.Active = *in.Active
	}
	return nil
}
