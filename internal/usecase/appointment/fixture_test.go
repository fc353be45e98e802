package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
)

// Monday 2026-03-02 07:00 UTC.
var testNow = time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)

func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, 2+day, hour, min, 0, 0, time.UTC)
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (f *fakeNotifier) Notify(_ context.Context, msg notify.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}

func (f *fakeNotifier) types() []notify.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.EventType, 0, len(f.msgs))
	for _, m := range f.msgs {
		out = append(out, m.Type)
	}
	return out
}

type fakeAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (f *fakeAuditor) Dispatch(ev audit.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
}

type fixture struct {
	store    *repository.MemoryStore
	notifier *fakeNotifier
	auditor  *fakeAuditor
	policy   config.Policy

	business models.Business
	admin    models.User
	worker   models.User
	worker2  models.User
	client   models.User
	client2  models.User

	otherBusiness models.Business
	otherWorker   models.User

	create       *CreateAppointment
	cancel       *CancelAppointment
	changeStatus *ChangeStatus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		store:    repository.NewMemoryStore(),
		notifier: &fakeNotifier{},
		auditor:  &fakeAuditor{},
		policy:   config.DefaultPolicy(),
	}

	f.business = models.Business{Name: "Studio", Slug: "studio"}
	f.admin = models.User{Name: "Ana", Email: strPtr("ana@studio.test"), Role: models.RoleAdmin, NotifyEnabled: true}
	mustNoErr(t, f.store.CreateBusinessWithOwner(ctx, &f.business, &f.admin))

	f.worker = f.addUser(t, f.business.ID, models.User{Name: "Bruno", Email: strPtr("bruno@studio.test"), Role: models.RoleWorker})
	f.worker2 = f.addUser(t, f.business.ID, models.User{Name: "Carla", Email: strPtr("carla@studio.test"), Role: models.RoleWorker})
	f.client = f.addUser(t, f.business.ID, models.User{Name: "Dora", Phone: "+5511900000001", Role: models.RoleUser})
	f.client2 = f.addUser(t, f.business.ID, models.User{Name: "Eli", Phone: "+5511900000002", Role: models.RoleUser})

	f.otherBusiness = models.Business{Name: "Other", Slug: "other"}
	otherAdmin := models.User{Name: "Olga", Email: strPtr("olga@other.test"), Role: models.RoleAdmin}
	mustNoErr(t, f.store.CreateBusinessWithOwner(ctx, &f.otherBusiness, &otherAdmin))
	f.otherWorker = f.addUser(t, f.otherBusiness.ID, models.User{Name: "Omar", Email: strPtr("omar@other.test"), Role: models.RoleWorker})

	f.rebuild()
	return f
}

// rebuild recreates the use cases after f.policy changes.
func (f *fixture) rebuild() {
	clock := func() time.Time { return testNow }

	f.create = NewCreateAppointment(f.store, f.notifier, f.auditor, f.policy)
	f.create.now = clock
	f.cancel = NewCancelAppointment(f.store, f.notifier, f.auditor, f.policy)
	f.cancel.now = clock
	f.changeStatus = NewChangeStatus(f.store, f.notifier, f.auditor)
	f.changeStatus.now = clock
}

func (f *fixture) addUser(t *testing.T, businessID uint, u models.User) models.User {
	t.Helper()
	u.BusinessID = businessID
	mustNoErr(t, f.store.CreateUser(context.Background(), &u))
	return u
}

func (f *fixture) adminCaller() auth.Identity {
	return auth.Identity{UserID: f.admin.ID, BusinessID: f.business.ID, Role: models.RoleAdmin}
}

func (f *fixture) book(clientID, workerID uint, start time.Time, minutes int) (*models.Appointment, error) {
	return f.create.Execute(context.Background(), CreateAppointmentInput{
		Caller:   f.adminCaller(),
		ClientID: clientID,
		WorkerID: workerID,
		Service:  &ServiceInput{Name: "Cut", DurationMin: minutes, Price: 50},
		StartAt:  start,
	})
}

func (f *fixture) mustBook(t *testing.T, clientID, workerID uint, start time.Time, minutes int) *models.Appointment {
	t.Helper()
	ap, err := f.book(clientID, workerID, start, minutes)
	if err != nil {
		t.Fatalf("book %s +%dm: %v", start.Format("Jan 2 15:04"), minutes, err)
	}
	return ap
}

func (f *fixture) addBlock(t *testing.T, workerID *uint, start, end time.Time, active bool) models.Block {
	t.Helper()
	b := models.Block{
		BusinessID: f.business.ID,
		WorkerID:   workerID,
		StartAt:    start,
		EndAt:      end,
		Reason:     "maintenance",
		Active:     active,
		CreatedBy:  f.admin.ID,
	}
	mustNoErr(t, f.store.CreateBlock(context.Background(), &b))
	return b
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if !httperr.IsBusiness(err, code) {
		t.Fatalf("err = %v, want %s", err, code)
	}
}

func mustNoErr(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func strPtr(s string) *string { return &s }
