package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

type Template string

const (
	TemplateConfirm    Template = "confirm"
	TemplateCancel     Template = "cancel"
	TemplateReschedule Template = "reschedule"
	TemplateCompleted  Template = "completed"
)

func ParseTemplate(s string) (Template, error) {
	switch t := Template(strings.ToLower(strings.TrimSpace(s))); t {
	case TemplateConfirm, TemplateCancel, TemplateReschedule, TemplateCompleted:
		return t, nil
	}
	return "", httperr.ErrValidation("invalid_template")
}

// Data é o contexto de uma mensagem. StartTime já vem no fuso da barbearia.
type Data struct {
	AppointmentID uint
	ClientName    string
	ServiceName   string
	StartTime     time.Time
	ShopName      string
}

type Result struct {
	Channel   string
	Delivered bool
	Err       error
}

// Notifier envia uma mensagem de template para o celular do cliente.
type Notifier interface {
	Notify(ctx context.Context, recipient string, tmpl Template, data Data) Result
}

type ChannelStatus struct {
	Channel string `json:"channel"`
	Ready   bool   `json:"ready"`
	Detail  string `json:"detail,omitempty"`
}

// StatusReporter é implementado pelos canais que sabem informar prontidão.
type StatusReporter interface {
	Status() ChannelStatus
}

func Render(tmpl Template, data Data) (string, error) {
	name := firstName(data.ClientName)
	when := data.StartTime.Format("02/01 15:04")
	shop := data.ShopName
	if shop == "" {
		shop = "BarberShop"
	}

	switch tmpl {
	case TemplateConfirm:
		return fmt.Sprintf("Hola %s, confirmamos tu cita en %s para el %s. ¡Te esperamos! 💈", name, shop, when), nil
	case TemplateCancel:
		return fmt.Sprintf("Hola %s, lamentamos informarte que tu cita del %s ha sido cancelada.", name, when), nil
	case TemplateReschedule:
		return fmt.Sprintf("Hola %s, tu cita ha sido reprogramada para el %s.", name, when), nil
	case TemplateCompleted:
		return fmt.Sprintf("Hola %s, ¡gracias por tu visita! Esperamos que te haya gustado el corte.", name), nil
	}
	return "", httperr.ErrValidation("invalid_template")
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
