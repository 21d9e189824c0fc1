package appointment

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-agenda/internal/audit"
	dbpkg "github.com/BruksfildServices01/barber-agenda/internal/db"
	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	catalogdomain "github.com/BruksfildServices01/barber-agenda/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/infra/repository"
	"github.com/BruksfildServices01/barber-agenda/internal/lock"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
	"github.com/BruksfildServices01/barber-agenda/internal/notify"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
	"github.com/BruksfildServices01/barber-agenda/internal/usecase/catalog"
)

var lima = timezone.Location("America/Lima")

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 10, hour, min, 0, 0, lima)
}

type fakeNotifier struct {
	mu   sync.Mutex
	jobs []notify.Job
}

func (f *fakeNotifier) Enqueue(job notify.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
}

func (f *fakeNotifier) templates() []notify.Template {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Template, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, j.Template)
	}
	return out
}

type fakeAuditor struct {
	mu      sync.Mutex
	actions []string
}

func (f *fakeAuditor) Dispatch(ev audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, ev.Action)
}

func (f *fakeAuditor) has(action string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.actions {
		if a == action {
			return true
		}
	}
	return false
}

type fixture struct {
	db       *gorm.DB
	engine   *Engine
	catalog  *catalog.Catalog
	notifier *fakeNotifier
	audit    *fakeAuditor
	haircut  *models.Service
	long     *models.Service
}

func newFixture(t *testing.T, policy domain.Policy) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := dbpkg.Migrate(db, policy); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &fixture{db: db, notifier: &fakeNotifier{}, audit: &fakeAuditor{}}
	f.catalog = catalog.New(repository.NewServiceGormRepository(db), nil, nil)

	ctx := context.Background()
	if f.haircut, err = f.catalog.Create(ctx, catalogdomain.CreateInput{Name: "Haircut", DurationMin: 30, Price: 20}, nil); err != nil {
		t.Fatalf("create service: %v", err)
	}
	if f.long, err = f.catalog.Create(ctx, catalogdomain.CreateInput{Name: "Tinte", DurationMin: 90, Price: 80}, nil); err != nil {
		t.Fatalf("create service: %v", err)
	}

	f.engine = NewEngine(Options{
		Repo:     repository.NewAppointmentGormRepository(db),
		Services: f.catalog,
		Policy:   policy,
		Location: lima,
		Workday:  domain.Workday{Start: "09:00", End: "20:00"},
		Now:      func() time.Time { return at(7, 0) },
		Audit:    f.audit,
		Notifier: f.notifier,
	})
	return f
}

func (f *fixture) book(t *testing.T, serviceID uint, start time.Time) (*models.Appointment, error) {
	t.Helper()
	return f.engine.Create(context.Background(), CreateInput{
		Client:    domain.ClientInfo{Name: "Juan Pérez", Dni: "12345678", Phone: "987654321"},
		ServiceID: serviceID,
		StartTime: start,
	})
}

func (f *fixture) mustBook(t *testing.T, serviceID uint, start time.Time) *models.Appointment {
	t.Helper()
	ap, err := f.book(t, serviceID, start)
	if err != nil {
		t.Fatalf("book %s: %v", start.Format("15:04"), err)
	}
	return ap
}

func isConflict(err error) bool {
	return httperr.KindOf(err) == httperr.KindConflict
}

// --------------------------------------------------
// criação / sobreposição
// --------------------------------------------------

func TestCreate_HaircutExample(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})

	first := f.mustBook(t, f.haircut.ID, at(9, 0))
	if !first.StartTime.Equal(at(9, 0)) || !first.EndTime.Equal(at(9, 30)) {
		t.Fatalf("expected [09:00,09:30), got [%s,%s)", first.StartTime.In(lima), first.EndTime.In(lima))
	}
	if first.Status != string(domain.StatusPending) {
		t.Fatalf("expected PENDING, got %s", first.Status)
	}

	if _, err := f.book(t, f.long.ID, at(9, 15)); !isConflict(err) {
		t.Fatalf("expected conflict at 09:15, got %v", err)
	}

	second := f.mustBook(t, f.haircut.ID, at(9, 30))
	if !second.EndTime.Equal(at(10, 0)) {
		t.Fatalf("expected end 10:00, got %s", second.EndTime.In(lima))
	}
}

func TestCreate_HalfOpenBoundary(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	f.mustBook(t, f.haircut.ID, at(10, 0))

	if _, err := f.book(t, f.haircut.ID, at(10, 29)); !isConflict(err) {
		t.Fatalf("expected conflict one minute before end, got %v", err)
	}
	if !f.audit.has("appointment_conflict") {
		t.Fatalf("expected rejected booking to be audited")
	}

	f.mustBook(t, f.haircut.ID, at(10, 30))
	// termina exatamente quando a das 10:00 começa
	f.mustBook(t, f.haircut.ID, at(9, 30))
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ctx := context.Background()

	cases := []struct {
		in   CreateInput
		code string
	}{
		{CreateInput{Client: domain.ClientInfo{Name: "A", Dni: "1234567", Phone: "987654321"}, ServiceID: f.haircut.ID, StartTime: at(9, 0)}, "invalid_dni"},
		{CreateInput{Client: domain.ClientInfo{Name: "A", Dni: "12345678", Phone: "98765432a"}, ServiceID: f.haircut.ID, StartTime: at(9, 0)}, "invalid_phone"},
		{CreateInput{Client: domain.ClientInfo{Name: " ", Dni: "12345678", Phone: "987654321"}, ServiceID: f.haircut.ID, StartTime: at(9, 0)}, "missing_fields"},
		{CreateInput{Client: domain.ClientInfo{Name: "A", Dni: "12345678", Phone: "987654321"}, StartTime: at(9, 0)}, "missing_fields"},
		{CreateInput{Client: domain.ClientInfo{Name: "A", Dni: "12345678", Phone: "987654321"}, ServiceID: f.haircut.ID}, "missing_fields"},
	}
	for _, tc := range cases {
		if _, err := f.engine.Create(ctx, tc.in); !httperr.IsBusiness(err, tc.code) {
			t.Fatalf("expected %s, got %v", tc.code, err)
		}
	}

	if _, err := f.book(t, 999, at(9, 0)); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("expected service not found, got %v", err)
	}

	inactive := false
	if _, err := f.catalog.Update(ctx, f.long.ID, catalogdomain.UpdateInput{Active: &inactive}, nil); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.book(t, f.long.ID, at(9, 0)); !httperr.IsBusiness(err, "service_inactive") {
		t.Fatalf("expected service_inactive, got %v", err)
	}

	var count int64
	f.db.Model(&models.Appointment{}).Count(&count)
	if count != 0 {
		t.Fatalf("rejected bookings must not persist, found %d", count)
	}
}

func TestCreate_MinAdvance(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	f.engine.minAdvance = 3 * time.Hour

	if _, err := f.book(t, f.haircut.ID, at(9, 0)); !httperr.IsBusiness(err, "too_soon") {
		t.Fatalf("expected too_soon, got %v", err)
	}
	f.mustBook(t, f.haircut.ID, at(10, 0))
}

func TestCreate_ConcurrentSameSlotOnlyOneWins(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			// intervalos diferentes mas todos sobrepostos a 11:00-11:30
			_, err := f.book(t, f.haircut.ID, at(11, i%3*10))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case isConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	if ok != 1 || conflicts != n-1 {
		t.Fatalf("expected exactly one booking, got ok=%d conflicts=%d", ok, conflicts)
	}
}

// --------------------------------------------------
// reprogramação
// --------------------------------------------------

func TestReschedule_SameTimeSucceeds(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ap := f.mustBook(t, f.haircut.ID, at(9, 0))

	got, err := f.engine.Reschedule(context.Background(), RescheduleInput{ID: ap.ID, StartTime: at(9, 0)})
	if err != nil {
		t.Fatalf("reschedule to same time: %v", err)
	}
	if got.Status != string(domain.StatusPending) || !got.EndTime.Equal(at(9, 30)) {
		t.Fatalf("unexpected appointment %+v", got)
	}
}

func TestReschedule_UsesCurrentStateOnly(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ctx := context.Background()

	first := f.mustBook(t, f.haircut.ID, at(9, 0))
	second := f.mustBook(t, f.haircut.ID, at(11, 0))

	moved, err := f.engine.Reschedule(ctx, RescheduleInput{ID: first.ID, StartTime: at(9, 30)})
	if err != nil {
		t.Fatalf("reschedule into free slot: %v", err)
	}
	if !moved.StartTime.Equal(at(9, 30)) || !moved.EndTime.Equal(at(10, 0)) {
		t.Fatalf("expected [09:30,10:00), got [%s,%s)", moved.StartTime.In(lima), moved.EndTime.In(lima))
	}

	// 09:00 foi liberado
	if _, err := f.engine.Reschedule(ctx, RescheduleInput{ID: second.ID, StartTime: at(9, 0)}); err != nil {
		t.Fatalf("reschedule into vacated slot: %v", err)
	}
	// 09:30 continua ocupado pela primeira
	if _, err := f.engine.Reschedule(ctx, RescheduleInput{ID: second.ID, StartTime: at(9, 45)}); !isConflict(err) {
		t.Fatalf("expected conflict with moved appointment, got %v", err)
	}

	stored, err := f.engine.Get(ctx, second.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !stored.StartTime.Equal(at(9, 0)) {
		t.Fatalf("failed reschedule must leave appointment unchanged, got %s", stored.StartTime.In(lima))
	}

	want := []notify.Template{notify.TemplateConfirm, notify.TemplateConfirm, notify.TemplateReschedule, notify.TemplateReschedule}
	got := f.notifier.templates()
	if len(got) != len(want) {
		t.Fatalf("expected %v notifications, got %v", want, got)
	}
}

func TestReschedule_KeepsLinkedServiceDuration(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ctx := context.Background()

	ap := f.mustBook(t, f.long.ID, at(9, 0))
	got, err := f.engine.Reschedule(ctx, RescheduleInput{ID: ap.ID, StartTime: at(14, 0)})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if got.EndTime.Sub(got.StartTime) != 90*time.Minute {
		t.Fatalf("expected 90 minutes, got %s", got.EndTime.Sub(got.StartTime))
	}
}

func TestReschedule_Errors(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ctx := context.Background()

	if _, err := f.engine.Reschedule(ctx, RescheduleInput{ID: 404, StartTime: at(9, 0)}); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	ap := f.mustBook(t, f.haircut.ID, at(9, 0))
	if _, err := f.engine.Reschedule(ctx, RescheduleInput{ID: ap.ID, StartTime: at(12, 0), ClientDni: "87654321"}); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("expected dni mismatch to look like not found, got %v", err)
	}

	if _, err := f.engine.Cancel(ctx, ActionInput{ID: ap.ID}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.engine.Reschedule(ctx, RescheduleInput{ID: ap.ID, StartTime: at(12, 0)}); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("expected invalid_state for cancelled appointment, got %v", err)
	}
}

// --------------------------------------------------
// cancelamento / conclusão
// --------------------------------------------------

func TestCancel_FreesSlotAndIsIdempotent(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ctx := context.Background()

	ap := f.mustBook(t, f.haircut.ID, at(9, 0))

	got, err := f.engine.Cancel(ctx, ActionInput{ID: ap.ID, ClientDni: "12345678"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) || got.CancelledAt == nil {
		t.Fatalf("expected cancelled, got %+v", got)
	}

	again, err := f.engine.Cancel(ctx, ActionInput{ID: ap.ID})
	if err != nil || again.Status != string(domain.StatusCancelled) {
		t.Fatalf("repeated cancel must be a no-op success, got %+v %v", again, err)
	}

	f.mustBook(t, f.haircut.ID, at(9, 0))

	if _, err := f.engine.Cancel(ctx, ActionInput{ID: 404}); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	cancels := 0
	for _, tmpl := range f.notifier.templates() {
		if tmpl == notify.TemplateCancel {
			cancels++
		}
	}
	if cancels != 1 {
		t.Fatalf("expected a single cancel notification, got %d", cancels)
	}
}

func TestComplete_PolicyControlsBlocking(t *testing.T) {
	ctx := context.Background()

	blocking := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ap := blocking.mustBook(t, blocking.haircut.ID, at(9, 0))
	if _, err := blocking.engine.Complete(ctx, ActionInput{ID: ap.ID}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := blocking.book(t, blocking.haircut.ID, at(9, 0)); !isConflict(err) {
		t.Fatalf("completed appointment should block, got %v", err)
	}

	freeing := newFixture(t, domain.Policy{CompletedBlocksSlot: false})
	ap = freeing.mustBook(t, freeing.haircut.ID, at(9, 0))
	done, err := freeing.engine.Complete(ctx, ActionInput{ID: ap.ID})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != string(domain.StatusCompleted) || done.CompletedAt == nil {
		t.Fatalf("expected completed, got %+v", done)
	}
	freeing.mustBook(t, freeing.haircut.ID, at(9, 0))

	again, err := freeing.engine.Complete(ctx, ActionInput{ID: ap.ID})
	if err != nil || again.Status != string(domain.StatusCompleted) {
		t.Fatalf("repeated complete must succeed, got %v", err)
	}
}

func TestComplete_CancelledRevalidatesInterval(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ctx := context.Background()

	old := f.mustBook(t, f.haircut.ID, at(9, 0))
	if _, err := f.engine.Cancel(ctx, ActionInput{ID: old.ID}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	f.mustBook(t, f.haircut.ID, at(9, 0))

	if _, err := f.engine.Complete(ctx, ActionInput{ID: old.ID}); !isConflict(err) {
		t.Fatalf("expected conflict completing over a rebooked slot, got %v", err)
	}

	if _, err := f.engine.Complete(ctx, ActionInput{ID: 404}); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

// --------------------------------------------------
// invariante global
// --------------------------------------------------

func TestInvariant_NoOverlapAfterRandomOperations(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	services := []uint{f.haircut.ID, f.long.ID}
	var ids []uint

	for i := 0; i < 300; i++ {
		start := at(9, 0).Add(time.Duration(rng.Intn(22)) * 30 * time.Minute).Add(time.Duration(rng.Intn(3)) * 10 * time.Minute)
		switch op := rng.Intn(4); {
		case op == 0 || len(ids) == 0:
			if ap, err := f.book(t, services[rng.Intn(2)], start); err == nil {
				ids = append(ids, ap.ID)
			}
		case op == 1:
			_, _ = f.engine.Reschedule(ctx, RescheduleInput{ID: ids[rng.Intn(len(ids))], StartTime: start})
		case op == 2:
			_, _ = f.engine.Cancel(ctx, ActionInput{ID: ids[rng.Intn(len(ids))]})
		default:
			_, _ = f.engine.Complete(ctx, ActionInput{ID: ids[rng.Intn(len(ids))]})
		}
	}

	var apps []models.Appointment
	if err := f.db.Where("status <> ?", domain.StatusCancelled).Find(&apps).Error; err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := range apps {
		for j := i + 1; j < len(apps); j++ {
			a, b := apps[i], apps[j]
			if a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime) {
				t.Fatalf("overlap between %d [%s,%s) and %d [%s,%s)",
					a.ID, a.StartTime, a.EndTime, b.ID, b.StartTime, b.EndTime)
			}
		}
	}
}

type busyLocker struct{}

func (busyLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	return nil, lock.ErrLockTimeout
}

func TestLockTimeout_IsReportedAsSlotBusy(t *testing.T) {
	f := newFixture(t, domain.Policy{CompletedBlocksSlot: true})
	ap, err := f.book(t, f.haircut.ID, at(9, 0))
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	f.engine.locker = busyLocker{}

	_, err = f.book(t, f.haircut.ID, at(10, 0))
	if !httperr.IsBusiness(err, "slot_busy") || httperr.KindOf(err) != httperr.KindConflict {
		t.Fatalf("expected conflict slot_busy, got %v", err)
	}

	_, err = f.engine.Cancel(context.Background(), ActionInput{ID: ap.ID})
	if !httperr.IsBusiness(err, "slot_busy") {
		t.Fatalf("expected slot_busy on cancel, got %v", err)
	}

	var count int64
	f.db.Model(&models.Appointment{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected nothing persisted under contention, got %d rows", count)
	}
}
