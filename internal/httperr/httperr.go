package httperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Unavailable(c *gin.Context, code, message string) {
	Write(c, http.StatusServiceUnavailable, code, message)
}

// Respond traduz o erro de um use case para a resposta HTTP.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if !errors.As(err, &be) {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.FullPath(), err)
		Internal(c, "internal_error", "Error interno del servidor.")
		return
	}

	msg := messageFor(be.Code)

	switch be.Kind {
	case KindValidation:
		BadRequest(c, be.Code, msg)
	case KindNotFound:
		NotFound(c, be.Code, msg)
	case KindConflict:
		Conflict(c, be.Code, msg)
	default:
		Internal(c, be.Code, msg)
	}
}

var messages = map[string]string{
	"invalid_request":       "Datos inválidos.",
	"missing_fields":        "Faltan datos obligatorios.",
	"invalid_dni":           "El DNI debe tener 8 dígitos.",
	"invalid_phone":         "El celular debe tener 9 dígitos.",
	"invalid_start_time":    "Fecha u hora inválida.",
	"invalid_state":         "La cita no admite esta operación en su estado actual.",
	"too_soon":              "El horario elegido es demasiado próximo.",
	"invalid_name":          "El nombre es obligatorio.",
	"invalid_duration":      "La duración debe ser mayor a cero.",
	"invalid_price":         "El precio no puede ser negativo.",
	"invalid_granularity":   "Intervalo de horarios inválido.",
	"invalid_date":          "Fecha inválida.",
	"invalid_image":         "Imagen inválida.",
	"service_inactive":      "El servicio no está disponible.",
	"service_not_found":     "Servicio no encontrado.",
	"appointment_not_found": "Cita no encontrada.",
	"time_conflict":         "¡Lo sentimos! Ese horario ya está reservado. Por favor, elige otra hora.",
	"slot_busy":             "El horario se está reservando en este momento. Intenta nuevamente.",
	"service_in_use":        "No se puede eliminar un servicio que tiene citas históricas. Desactívalo.",
	"invalid_template":      "Tipo de mensaje inválido.",
	"invalid_status":        "Estado inválido.",
	"invalid_range":         "Rango de fechas inválido.",
	"payment_unavailable":   "Pagos no configurados.",
	"storage_unavailable":   "Almacenamiento de imágenes no configurado.",
	"invalid_credentials":   "Credenciales inválidas.",
}

func messageFor(code string) string {
	if m, ok := messages[code]; ok {
		return m
	}
	return code
}
