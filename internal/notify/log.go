package notify

import (
	"context"
	"log"
)

// LogNotifier só registra a mensagem; usado quando nenhum canal está configurado.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, recipient string, tmpl Template, data Data) Result {
	text, err := Render(tmpl, data)
	if err != nil {
		return Result{Channel: "log", Err: err}
	}
	log.Printf("notify [%s] to %s: %s", tmpl, recipient, text)
	return Result{Channel: "log", Delivered: true}
}

func (LogNotifier) Status() ChannelStatus {
	return ChannelStatus{Channel: "log", Ready: true}
}
