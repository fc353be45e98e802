package account

import (
	"context"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
)

func init() {
	passwordCost = bcrypt.MinCost
}

type sink struct {
	mu     sync.Mutex
	events []audit.Event
	msgs   []notify.Message
}

func (s *sink) Dispatch(ev audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *sink) Notify(_ context.Context, msg notify.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

type fixedEmails bool

func (f fixedEmails) Valid(context.Context, string) bool { return bool(f) }

var issuer = auth.NewTokenIssuer("test-secret", time.Hour)

func register(t *testing.T, store *repository.MemoryStore, s *sink) *Session {
	t.Helper()
	out, err := NewRegisterBusiness(store, issuer, nil, s).Execute(context.Background(), RegisterInput{
		BusinessName: "Studio",
		BusinessSlug: " Studio-Uno ",
		Timezone:     "America/Sao_Paulo",
		Name:         "Ana",
		Email:        "Ana@Studio.test",
		Password:     "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return out
}

func TestRegisterBusiness(t *testing.T) {
	store := repository.NewMemoryStore()
	s := &sink{}

	out := register(t, store, s)

	if out.Business.Slug != "studio-uno" || out.Business.Timezone != "America/Sao_Paulo" {
		t.Fatalf("business = %+v", out.Business)
	}
	if out.User.Role != models.RoleAdmin || *out.User.Email != "ana@studio.test" || !out.User.NotifyEnabled {
		t.Fatalf("owner = %+v", out.User)
	}
	if out.Business.OwnerID == nil || *out.Business.OwnerID != out.User.ID {
		t.Fatalf("owner id = %v", out.Business.OwnerID)
	}
	if out.User.PasswordHash == "s3cret-pass" {
		t.Fatalf("password stored in clear")
	}

	id, err := issuer.Parse(out.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if id.UserID != out.User.ID || id.BusinessID != out.Business.ID || id.Role != models.RoleAdmin {
		t.Fatalf("identity = %+v", id)
	}
}

func TestRegisterBusiness_Rejects(t *testing.T) {
	store := repository.NewMemoryStore()
	s := &sink{}
	register(t, store, s)
	ctx := context.Background()

	dup := RegisterInput{BusinessName: "Other", BusinessSlug: "studio-uno", Name: "B", Email: "b@other.test", Password: "s3cret-pass"}
	_, err := NewRegisterBusiness(store, issuer, nil, s).Execute(ctx, dup)
	if !httperr.IsBusiness(err, httperr.CodeConflict) {
		t.Fatalf("duplicate slug err = %v", err)
	}

	bad := RegisterInput{BusinessName: "Other", BusinessSlug: "Not a slug!", Timezone: "Nowhere/City", Name: "B", Email: "b@other.test", Password: "s3cret-pass"}
	_, err = NewRegisterBusiness(store, issuer, nil, s).Execute(ctx, bad)
	be, ok := httperr.AsBusiness(err)
	if !ok || be.Code != httperr.CodeValidation || len(be.Fields) != 2 {
		t.Fatalf("err = %v fields = %+v", err, be.Fields)
	}

	ok2 := RegisterInput{BusinessName: "Other", BusinessSlug: "other", Name: "B", Email: "b@nowhere.invalid", Password: "s3cret-pass"}
	_, err = NewRegisterBusiness(store, issuer, fixedEmails(false), s).Execute(ctx, ok2)
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("email domain err = %v", err)
	}
}

func TestLogin(t *testing.T) {
	store := repository.NewMemoryStore()
	reg := register(t, store, &sink{})
	uc := NewLogin(store, issuer)
	ctx := context.Background()

	out, err := uc.Execute(ctx, "  ANA@studio.test", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.User.ID != reg.User.ID || out.Business.ID != reg.Business.ID || out.Token == "" {
		t.Fatalf("session = %+v", out)
	}

	for _, tc := range []struct{ email, password string }{
		{"ana@studio.test", "wrong"},
		{"nobody@studio.test", "s3cret-pass"},
	} {
		_, err := uc.Execute(ctx, tc.email, tc.password)
		if !httperr.IsBusiness(err, httperr.CodeUnauthorized) {
			t.Fatalf("login(%s) err = %v", tc.email, err)
		}
	}
}

func TestSignupClient(t *testing.T) {
	store := repository.NewMemoryStore()
	s := &sink{}
	reg := register(t, store, s)
	uc := NewSignupClient(store, issuer, s, s)
	ctx := context.Background()

	first, err := uc.Execute(ctx, SignupInput{BusinessSlug: "studio-uno", Name: "Dora", Phone: "+55 11 90000-0001", Password: "dora-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if first.User.Role != models.RoleUser || first.User.BusinessID != reg.Business.ID || first.User.PasswordHash == "dora-pass" {
		t.Fatalf("first = %+v", first.User)
	}

	again, err := uc.Execute(ctx, SignupInput{BusinessSlug: "studio-uno", Name: "Mallory", Phone: "+55 11 90000-0001", Password: "other-pass"})
	if !httperr.IsBusiness(err, httperr.CodeConflict) || again != nil {
		t.Fatalf("repeated phone = %+v err=%v", again, err)
	}

	if len(s.msgs) != 1 || s.msgs[0].Type != notify.EventUserSignup {
		t.Fatalf("notifications = %+v", s.msgs)
	}

	id, err := issuer.Parse(first.Token)
	if err != nil || id.Role != models.RoleUser || id.UserID != first.User.ID {
		t.Fatalf("identity = %+v err=%v", id, err)
	}

	_, err = uc.Execute(ctx, SignupInput{BusinessSlug: "studio-uno", Name: "X", Phone: "2", Password: "short"})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("short password err = %v", err)
	}

	_, err = uc.Execute(ctx, SignupInput{BusinessSlug: "missing", Name: "X", Phone: "1", Password: "long-enough"})
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("unknown slug err = %v", err)
	}
}

func TestClientLogin(t *testing.T) {
	store := repository.NewMemoryStore()
	s := &sink{}
	reg := register(t, store, s)
	ctx := context.Background()

	dora, err := NewSignupClient(store, issuer, s, s).Execute(ctx, SignupInput{BusinessSlug: "studio-uno", Name: "Dora", Phone: "+1", Password: "dora-pass"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	// a client created without a password (legacy row) cannot log in
	legacy := models.User{BusinessID: reg.Business.ID, Name: "Old", Phone: "+2", Role: models.RoleUser}
	if err := store.CreateUser(ctx, &legacy); err != nil {
		t.Fatalf("seed legacy: %v", err)
	}

	uc := NewClientLogin(store, issuer)

	out, err := uc.Execute(ctx, "Studio-Uno", " +1 ", "dora-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.User.ID != dora.User.ID || out.Business.ID != reg.Business.ID {
		t.Fatalf("session = %+v", out)
	}

	for _, tc := range []struct{ phone, password string }{
		{"+1", "wrong-pass"},
		{"+2", ""},
		{"+9", "dora-pass"},
	} {
		_, err := uc.Execute(ctx, "studio-uno", tc.phone, tc.password)
		if !httperr.IsBusiness(err, httperr.CodeUnauthorized) {
			t.Fatalf("login(%s) err = %v", tc.phone, err)
		}
	}

	// staff cannot use the client path
	if _, err := uc.Execute(ctx, "studio-uno", "", "s3cret-pass"); !httperr.IsBusiness(err, httperr.CodeUnauthorized) {
		t.Fatalf("staff via client login err = %v", err)
	}
}

func TestCreateStaff(t *testing.T) {
	store := repository.NewMemoryStore()
	s := &sink{}
	reg := register(t, store, s)
	uc := NewCreateStaff(store, s)
	ctx := context.Background()

	u, err := uc.Execute(ctx, CreateStaffInput{
		BusinessID: reg.Business.ID, ActorID: reg.User.ID,
		Name: "Bruno", Email: "bruno@studio.test", Password: "worker-pass", NotifyEnabled: true,
	})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if u.Role != models.RoleWorker || u.NotifyEnabled {
		t.Fatalf("staff = %+v", u)
	}

	// the new worker can log in
	if _, err := NewLogin(store, issuer).Execute(ctx, "bruno@studio.test", "worker-pass"); err != nil {
		t.Fatalf("worker login: %v", err)
	}

	_, err = uc.Execute(ctx, CreateStaffInput{BusinessID: reg.Business.ID, Name: "Dup", Email: "BRUNO@studio.test", Password: "x"})
	if !httperr.IsBusiness(err, httperr.CodeConflict) {
		t.Fatalf("duplicate err = %v", err)
	}

	_, err = uc.Execute(ctx, CreateStaffInput{BusinessID: reg.Business.ID, Name: "C", Email: "c@studio.test", Password: "x", Role: models.RoleUser})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("role err = %v", err)
	}
}
