package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, httperr.ErrValidation("invalid_request")
	}
	return uint(id), nil
}

// horário sem offset é interpretado no fuso da barbearia
func parseStartTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, httperr.ErrValidation("missing_fields")
	}
	t, err := timezone.ParseDateTime(s, loc)
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_start_time")
	}
	return t, nil
}

// parseDateQuery devolve nil quando o parâmetro não veio.
func parseDateQuery(c *gin.Context, key string, loc *time.Location) (*time.Time, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	t, err := timezone.ParseDate(v, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}
	return &t, nil
}
