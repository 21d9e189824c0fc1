package notify

import (
	"context"
	"errors"
)

// Multi envia para todos os canais; entregue se ao menos um entregou.
type Multi struct {
	channels []Notifier
}

func NewMulti(channels ...Notifier) *Multi {
	var out []Notifier
	for _, ch := range channels {
		if ch != nil {
			out = append(out, ch)
		}
	}
	return &Multi{channels: out}
}

func (m *Multi) Notify(ctx context.Context, recipient string, tmpl Template, data Data) Result {
	res := Result{Channel: "multi"}
	var errs []error

	for _, ch := range m.channels {
		r := ch.Notify(ctx, recipient, tmpl, data)
		if r.Delivered {
			res.Delivered = true
		}
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}

	res.Err = errors.Join(errs...)
	return res
}

func (m *Multi) Statuses() []ChannelStatus {
	out := []ChannelStatus{}
	for _, ch := range m.channels {
		if sr, ok := ch.(StatusReporter); ok {
			out = append(out, sr.Status())
		}
	}
	return out
}
