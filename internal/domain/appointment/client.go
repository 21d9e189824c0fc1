package appointment

import (
	"strings"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/validators"
)

type ClientInfo struct {
	Name  string
	Dni   string
	Phone string
}

func (c ClientInfo) Normalize() ClientInfo {
	return ClientInfo{
		Name:  strings.TrimSpace(c.Name),
		Dni:   strings.TrimSpace(c.Dni),
		Phone: strings.TrimSpace(c.Phone),
	}
}

func (c ClientInfo) Validate() error {
	if c.Name == "" || c.Dni == "" || c.Phone == "" {
		return httperr.ErrValidation("missing_fields")
	}
	if !validators.IsDni(c.Dni) {
		return httperr.ErrValidation("invalid_dni")
	}
	if !validators.IsPhone(c.Phone) {
		return httperr.ErrValidation("invalid_phone")
	}
	return nil
}
