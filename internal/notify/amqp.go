package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// OutboundMessage é o payload consumido pelo gateway de WhatsApp.
type OutboundMessage struct {
	ID            string    `json:"id"`
	ChatID        string    `json:"chat_id"`
	Phone         string    `json:"phone"`
	Template      Template  `json:"template"`
	Text          string    `json:"text"`
	AppointmentID uint      `json:"appointment_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// ChatID monta o id do WhatsApp a partir do celular local (ex.: 51987654321@c.us).
func ChatID(countryCode, phone string) string {
	return countryCode + phone + "@c.us"
}

func BuildOutbound(countryCode, recipient string, tmpl Template, data Data, now time.Time) (OutboundMessage, error) {
	text, err := Render(tmpl, data)
	if err != nil {
		return OutboundMessage{}, err
	}
	return OutboundMessage{
		ID:            uuid.NewString(),
		ChatID:        ChatID(countryCode, recipient),
		Phone:         recipient,
		Template:      tmpl,
		Text:          text,
		AppointmentID: data.AppointmentID,
		CreatedAt:     now.UTC(),
	}, nil
}

// AMQPNotifier publica mensagens numa fila durável do RabbitMQ.
type AMQPNotifier struct {
	url         string
	queue       string
	countryCode string

	dial func(url string) (*amqp.Connection, error)

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	lastErr error
}

const dialTimeout = 5 * time.Second

func NewAMQPNotifier(url, queue, countryCode string) *AMQPNotifier {
	return &AMQPNotifier{
		url:         url,
		queue:       queue,
		countryCode: countryCode,
		dial: func(url string) (*amqp.Connection, error) {
			return amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
		},
	}
}

// Connect abre conexão e fila já na subida; o erro fica registrado no status.
func (n *AMQPNotifier) Connect() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := n.channel()
	n.lastErr = err
	return err
}

// channel reabre conexão e canal quando o broker caiu.
func (n *AMQPNotifier) channel() (*amqp.Channel, error) {
	if n.ch != nil && !n.ch.IsClosed() && n.conn != nil && !n.conn.IsClosed() {
		return n.ch, nil
	}
	n.reset()

	conn, err := n.dial(n.url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(
		n.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	n.conn = conn
	n.ch = ch
	return ch, nil
}

func (n *AMQPNotifier) reset() {
	if n.ch != nil {
		_ = n.ch.Close()
		n.ch = nil
	}
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
}

func (n *AMQPNotifier) Notify(ctx context.Context, recipient string, tmpl Template, data Data) Result {
	res := Result{Channel: "whatsapp"}

	msg, err := BuildOutbound(n.countryCode, recipient, tmpl, data, time.Now())
	if err != nil {
		res.Err = err
		return res
	}
	body, err := json.Marshal(msg)
	if err != nil {
		res.Err = err
		return res
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	ch, err := n.channel()
	if err != nil {
		n.lastErr = err
		res.Err = err
		return res
	}

	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		n.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		n.lastErr = fmt.Errorf("rabbitmq publish: %w", err)
		n.reset()
		res.Err = n.lastErr
		return res
	}

	n.lastErr = nil
	res.Delivered = true
	return res
}

func (n *AMQPNotifier) Status() ChannelStatus {
	n.mu.Lock()
	defer n.mu.Unlock()

	// reconecta se preciso; o status reflete o broker agora
	st := ChannelStatus{Channel: "whatsapp"}
	if _, err := n.channel(); err != nil {
		n.lastErr = err
		st.Detail = err.Error()
		return st
	}
	n.lastErr = nil
	st.Ready = true
	return st
}

func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reset()
	return nil
}
