package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/lock"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
	"github.com/BruksfildServices01/barber-agenda/internal/payment"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	Enqueue(job notify.Job)
}

type Options struct {
	Repo     domain.Repository
	Services domain.ServiceLookup
	Locker   lock.Locker
	Policy   domain.Policy

	Location       *time.Location
	Workday        domain.Workday
	GranularityMin int
	MinAdvance     time.Duration
	ShopName       string

	Now      func() time.Time
	Audit    Auditor
	Notifier Notifier
	Payments payment.Gateway
}

// Engine concentra o algoritmo de sobreposição e a máquina de estados das citas.
type Engine struct {
	repo     domain.Repository
	services domain.ServiceLookup
	locker   lock.Locker
	policy   domain.Policy

	loc         *time.Location
	workday     domain.Workday
	granularity int
	minAdvance  time.Duration
	shopName    string

	now      func() time.Time
	audit    Auditor
	notifier Notifier
	payments payment.Gateway
}

func NewEngine(o Options) *Engine {
	e := &Engine{
		repo:        o.Repo,
		services:    o.Services,
		locker:      o.Locker,
		policy:      o.Policy,
		loc:         o.Location,
		workday:     o.Workday,
		granularity: o.GranularityMin,
		minAdvance:  o.MinAdvance,
		shopName:    o.ShopName,
		now:         o.Now,
		audit:       o.Audit,
		notifier:    o.Notifier,
		payments:    o.Payments,
	}

	if e.locker == nil {
		e.locker = lock.NewLocal()
	}
	if e.loc == nil {
		e.loc = timezone.Location(timezone.DefaultTimezone)
	}
	if e.workday.Start == "" || e.workday.End == "" {
		e.workday = domain.Workday{Start: "09:00", End: "20:00"}
	}
	if e.granularity <= 0 {
		e.granularity = 30
	}
	if e.now == nil {
		e.now = time.Now
	}

	return e
}

func (e *Engine) Policy() domain.Policy {
	return e.policy
}

func (e *Engine) Location() *time.Location {
	return e.loc
}

// HasConflict é uma leitura pura; o resultado só vale sob os locks do intervalo.
func (e *Engine) HasConflict(
	ctx context.Context,
	candidate domain.Interval,
	excludeID uint,
) (bool, error) {
	return e.repo.HasConflict(ctx, candidate, excludeID, e.policy.BlockingStatuses())
}

func (e *Engine) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	return e.repo.GetAppointment(ctx, id)
}

// --------------------------------------------------
// locks
// --------------------------------------------------

func (e *Engine) lockInterval(ctx context.Context, iv domain.Interval) (func(), error) {
	days := iv.Days(e.loc)
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, lock.DayKey(d))
	}
	return e.acquire(ctx, keys...)
}

// lockAppointment sempre antes de lockInterval, nunca o contrário.
func (e *Engine) lockAppointment(ctx context.Context, id uint) (func(), error) {
	return e.acquire(ctx, lock.AppointmentKey(id))
}

// timeout de lock é disputa, não falha de infraestrutura
func (e *Engine) acquire(ctx context.Context, keys ...string) (func(), error) {
	release, err := e.locker.Lock(ctx, keys...)
	if errors.Is(err, lock.ErrLockTimeout) {
		return nil, errSlotBusy
	}
	return release, err
}

// --------------------------------------------------
// side effects
// --------------------------------------------------

func (e *Engine) record(action string, adminID *uint, ap *models.Appointment, meta any) {
	if e.audit == nil {
		return
	}
	ev := audit.Event{
		AdminID:  adminID,
		Action:   action,
		Entity:   "appointment",
		Metadata: meta,
	}
	if ap != nil && ap.ID != 0 {
		id := ap.ID
		ev.EntityID = &id
	}
	e.audit.Dispatch(ev)
}

func (e *Engine) enqueue(tmpl notify.Template, ap *models.Appointment) {
	if e.notifier == nil {
		return
	}
	e.notifier.Enqueue(notify.Job{
		Recipient: ap.ClientPhone,
		Template:  tmpl,
		Data:      e.notifyData(ap),
	})
}

func (e *Engine) notifyData(ap *models.Appointment) notify.Data {
	return notify.Data{
		AppointmentID: ap.ID,
		ClientName:    ap.ClientName,
		ServiceName:   ap.Service.Name,
		StartTime:     ap.StartTime.In(e.loc),
		ShopName:      e.shopName,
	}
}

func (e *Engine) checkAdvance(start time.Time) error {
	if e.minAdvance <= 0 {
		return nil
	}
	if start.Before(e.now().Add(e.minAdvance)) {
		return errTooSoon
	}
	return nil
}
