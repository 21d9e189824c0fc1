package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-agenda/internal/httpresp"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
)

type StatusSource interface {
	Statuses() []notify.ChannelStatus
}

type NotifierHandler struct {
	source StatusSource
}

func NewNotifierHandler(source StatusSource) *NotifierHandler {
	return &NotifierHandler{source: source}
}

// Status: READY se algum canal está pronto, DISCONNECTED caso contrário.
func (h *NotifierHandler) Status(c *gin.Context) {
	channels := h.source.Statuses()

	state := "DISCONNECTED"
	for _, ch := range channels {
		if ch.Ready {
			state = "READY"
			break
		}
	}

	httpresp.OK(c, gin.H{
		"status":   state,
		"channels": channels,
	})
}
