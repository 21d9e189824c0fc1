package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier avisa o canal do administrador sobre cada mensagem enviada ao cliente.
type TelegramNotifier struct {
	bot    telegramSender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(_ context.Context, recipient string, tmpl Template, data Data) Result {
	res := Result{Channel: "telegram"}

	text, err := Render(tmpl, data)
	if err != nil {
		res.Err = err
		return res
	}

	msg := tgbotapi.NewMessage(n.chatID, fmt.Sprintf(
		"📋 Cita #%d [%s]\n📱 %s\n%s",
		data.AppointmentID, tmpl, recipient, text,
	))
	if _, err := n.bot.Send(msg); err != nil {
		res.Err = fmt.Errorf("telegram send: %w", err)
		return res
	}

	res.Delivered = true
	return res
}

func (n *TelegramNotifier) Status() ChannelStatus {
	return ChannelStatus{Channel: "telegram", Ready: n.bot != nil}
}
