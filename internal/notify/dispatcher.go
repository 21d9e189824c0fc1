package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

type Job struct {
	Recipient string
	Template  Template
	Data      Data
}

// Dispatcher entrega jobs em background; falhas nunca voltam para quem enfileirou.
type Dispatcher struct {
	notifier Notifier
	queue    chan Job
	timeout  time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewDispatcher(n Notifier, size int, timeout time.Duration) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	d := &Dispatcher{
		notifier: n,
		queue:    make(chan Job, size),
		timeout:  timeout,
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for job := range d.queue {
		d.deliver(job)
	}
}

func (d *Dispatcher) deliver(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("notify panic (%s, appointment %d): %v", job.Template, job.Data.AppointmentID, r)
		}
	}()

	res := d.notifier.Notify(ctx, job.Recipient, job.Template, job.Data)
	if res.Err != nil {
		log.Printf("notify %s failed (appointment %d): %v", job.Template, job.Data.AppointmentID, res.Err)
	}
}

// Enqueue descarta o job depois de Close.
func (d *Dispatcher) Enqueue(job Job) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		log.Printf("notify dispatcher closed, dropping %s for appointment %d", job.Template, job.Data.AppointmentID)
		return
	}

	select {
	case d.queue <- job:
	default:
		log.Printf("notify queue full, dropping %s for appointment %d", job.Template, job.Data.AppointmentID)
	}
}

func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.done
}
