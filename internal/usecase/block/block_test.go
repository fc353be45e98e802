package block

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	blockdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

type env struct {
	store  *repository.MemoryStore
	audit  *recorder
	biz    models.Business
	admin  models.User
	worker models.User
	client models.User
	other  models.User
}

func setup(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	e := &env{store: repository.NewMemoryStore(), audit: &recorder{}}

	email := "admin@studio.test"
	e.biz = models.Business{Name: "Studio", Slug: "studio"}
	e.admin = models.User{Name: "Admin", Email: &email, Role: models.RoleAdmin}
	if err := e.store.CreateBusinessWithOwner(ctx, &e.biz, &e.admin); err != nil {
		t.Fatalf("seed business: %v", err)
	}

	e.worker = models.User{BusinessID: e.biz.ID, Name: "Worker", Role: models.RoleWorker}
	e.client = models.User{BusinessID: e.biz.ID, Name: "Client", Phone: "+1", Role: models.RoleUser}
	e.other = models.User{BusinessID: e.biz.ID + 100, Name: "Elsewhere", Role: models.RoleWorker}
	for _, u := range []*models.User{&e.worker, &e.client, &e.other} {
		if err := e.store.CreateUser(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return e
}

var (
	noon = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	one  = noon.Add(time.Hour)
)

func TestCreateBlock(t *testing.T) {
	e := setup(t)
	uc := NewCreateBlock(e.store, e.audit)

	loc := time.FixedZone("BRT", -3*3600)
	b, err := uc.Execute(context.Background(), CreateBlockInput{
		BusinessID: e.biz.ID,
		ActorID:    e.admin.ID,
		WorkerID:   &e.worker.ID,
		StartAt:    noon.In(loc),
		EndAt:      one.In(loc),
		Reason:     "training",
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !b.Active || b.CreatedBy != e.admin.ID {
		t.Fatalf("block = %+v", b)
	}
	if b.StartAt.Location() != time.UTC {
		t.Fatalf("start not normalized to UTC: %v", b.StartAt)
	}
	if got := e.audit.actions(); len(got) != 1 || got[0] != "block_created" {
		t.Fatalf("audit = %v", got)
	}
}

func TestCreateBlock_Rejects(t *testing.T) {
	e := setup(t)
	uc := NewCreateBlock(e.store, e.audit)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateBlockInput
		code string
	}{
		{"end before start", CreateBlockInput{StartAt: one, EndAt: noon, Reason: "other"}, httperr.CodeValidation},
		{"empty range", CreateBlockInput{StartAt: noon, EndAt: noon, Reason: "other"}, httperr.CodeValidation},
		{"unknown reason", CreateBlockInput{StartAt: noon, EndAt: one, Reason: "holiday"}, httperr.CodeValidation},
		{"client as worker", CreateBlockInput{StartAt: noon, EndAt: one, Reason: "other", WorkerID: &e.client.ID}, httperr.CodeNotInBusiness},
		{"foreign worker", CreateBlockInput{StartAt: noon, EndAt: one, Reason: "other", WorkerID: &e.other.ID}, httperr.CodeNotInBusiness},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.BusinessID = e.biz.ID
			_, err := uc.Execute(ctx, tc.in)
			if !httperr.IsBusiness(err, tc.code) {
				t.Fatalf("err = %v, want %s", err, tc.code)
			}
		})
	}
}

func TestUpdateBlock_PartialAndRevalidated(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	b, err := NewCreateBlock(e.store, e.audit).Execute(ctx, CreateBlockInput{
		BusinessID: e.biz.ID, StartAt: noon, EndAt: one, Reason: "other",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	uc := NewUpdateBlock(e.store, e.audit)

	notes := "ceiling repair"
	later := one.Add(time.Hour)
	updated, err := uc.Execute(ctx, UpdateBlockInput{BusinessID: e.biz.ID, BlockID: b.ID, EndAt: &later, Notes: &notes})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.EndAt.Equal(later) || updated.Notes != notes || updated.Reason != "other" || !updated.StartAt.Equal(noon) {
		t.Fatalf("updated = %+v", updated)
	}

	// moving start past the stored end breaks the merged record
	tooLate := later.Add(time.Hour)
	_, err = uc.Execute(ctx, UpdateBlockInput{BusinessID: e.biz.ID, BlockID: b.ID, StartAt: &tooLate})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}

	_, err = uc.Execute(ctx, UpdateBlockInput{BusinessID: e.biz.ID + 1, BlockID: b.ID, Notes: &notes})
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestDeactivateBlock_Idempotent(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	b, err := NewCreateBlock(e.store, e.audit).Execute(ctx, CreateBlockInput{
		BusinessID: e.biz.ID, StartAt: noon, EndAt: one, Reason: "vacation",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	uc := NewDeactivateBlock(e.store, e.audit)
	for i := 0; i < 2; i++ {
		got, err := uc.Execute(ctx, e.biz.ID, e.admin.ID, b.ID)
		if err != nil {
			t.Fatalf("deactivate #%d: %v", i, err)
		}
		if got.Active {
			t.Fatalf("block still active after #%d", i)
		}
	}

	if got := e.audit.actions(); len(got) != 2 || got[1] != "block_deactivated" {
		t.Fatalf("audit = %v", got)
	}

	_, err = uc.Execute(ctx, e.biz.ID, e.admin.ID, 9999)
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestListBlocks(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	create := NewCreateBlock(e.store, e.audit)

	wide, _ := create.Execute(ctx, CreateBlockInput{BusinessID: e.biz.ID, StartAt: noon, EndAt: one, Reason: "other"})
	mine, _ := create.Execute(ctx, CreateBlockInput{BusinessID: e.biz.ID, WorkerID: &e.worker.ID, StartAt: noon.Add(24 * time.Hour), EndAt: one.Add(24 * time.Hour), Reason: "vacation"})
	gone, _ := create.Execute(ctx, CreateBlockInput{BusinessID: e.biz.ID, StartAt: noon.Add(48 * time.Hour), EndAt: one.Add(48 * time.Hour), Reason: "other"})
	if _, err := NewDeactivateBlock(e.store, e.audit).Execute(ctx, e.biz.ID, e.admin.ID, gone.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	uc := NewListBlocks(e.store)

	got, err := uc.Execute(ctx, blockdomain.Filter{BusinessID: e.biz.ID, WorkerID: &e.worker.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != wide.ID || got[1].ID != mine.ID {
		t.Fatalf("worker blocks = %+v", got)
	}

	got, err = uc.Execute(ctx, blockdomain.Filter{BusinessID: e.biz.ID, IncludeInactive: true})
	if err != nil || len(got) != 3 {
		t.Fatalf("all blocks = %d err=%v", len(got), err)
	}

	from, to := noon.Add(12*time.Hour), noon.Add(36*time.Hour)
	got, err = uc.Execute(ctx, blockdomain.Filter{BusinessID: e.biz.ID, From: &from, To: &to})
	if err != nil || len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("ranged blocks = %+v err=%v", got, err)
	}

	_, err = uc.Execute(ctx, blockdomain.Filter{BusinessID: e.biz.ID, From: &to, To: &from})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION_ERROR", err)
	}
}
