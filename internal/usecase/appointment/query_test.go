package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

func (f *fixture) findSlots(now time.Time) *FindSlots {
	uc := NewFindSlots(f.store, f.policy)
	uc.now = func() time.Time { return now }
	return uc
}

func assertTimes(t *testing.T, got []time.Time, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("[%d] = %s, want %s", i, got[i].Format(time.RFC3339), want[i].Format(time.RFC3339))
		}
	}
}

// ======================================================
// FIND SLOTS
// ======================================================

func TestFindSlots_SkipsBookedTime(t *testing.T) {
	f := newFixture(t)
	f.mustBook(t, f.client.ID, f.worker.ID, at(0, 9, 0), 30)

	out, err := f.findSlots(at(0, 8, 0)).Execute(context.Background(), FindSlotsInput{
		BusinessID:  f.business.ID,
		WorkerID:    f.worker.ID,
		DurationMin: 30,
	})
	mustNoErr(t, err)

	assertTimes(t, out.Slots, at(0, 8, 0), at(0, 8, 20), at(0, 9, 40), at(0, 10, 0), at(0, 10, 20))

	// another worker's bookings are irrelevant
	out, err = f.findSlots(at(0, 8, 0)).Execute(context.Background(), FindSlotsInput{
		BusinessID:  f.business.ID,
		WorkerID:    f.worker2.ID,
		DurationMin: 30,
		Limit:       3,
	})
	mustNoErr(t, err)
	assertTimes(t, out.Slots, at(0, 8, 0), at(0, 8, 20), at(0, 8, 40))
}

func TestFindSlots_CanceledAndBlocks(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(0, 8, 0), 60)
	mustNoErr(t, f.setStatus(ap.ID, "canceled"))
	f.addBlock(t, nil, at(0, 8, 40), at(0, 9, 40), true)

	out, err := f.findSlots(at(0, 8, 0)).Execute(context.Background(), FindSlotsInput{
		BusinessID:  f.business.ID,
		WorkerID:    f.worker.ID,
		DurationMin: 20,
		Limit:       3,
	})
	mustNoErr(t, err)
	assertTimes(t, out.Slots, at(0, 8, 0), at(0, 8, 20), at(0, 9, 40))
}

func TestFindSlots_UsesServiceDuration(t *testing.T) {
	f := newFixture(t)
	svc := models.Service{BusinessID: f.business.ID, Name: "Long", DurationMin: 480, Active: true}
	mustNoErr(t, f.store.CreateService(context.Background(), &svc))

	out, err := f.findSlots(at(0, 8, 0)).Execute(context.Background(), FindSlotsInput{
		BusinessID: f.business.ID,
		WorkerID:   f.worker.ID,
		ServiceID:  &svc.ID,
		Limit:      2,
	})
	mustNoErr(t, err)
	if out.DurationMin != 480 {
		t.Fatalf("duration = %d", out.DurationMin)
	}
	assertTimes(t, out.Slots, at(0, 8, 0), at(0, 8, 20))
}

func TestFindSlots_Validation(t *testing.T) {
	f := newFixture(t)
	uc := f.findSlots(testNow)
	ctx := context.Background()

	_, err := uc.Execute(ctx, FindSlotsInput{BusinessID: f.business.ID, WorkerID: f.worker.ID, DurationMin: 30, Limit: 51})
	assertCode(t, err, httperr.CodeValidation)

	_, err = uc.Execute(ctx, FindSlotsInput{BusinessID: f.business.ID, WorkerID: f.worker.ID})
	assertCode(t, err, httperr.CodeValidation)

	_, err = uc.Execute(ctx, FindSlotsInput{BusinessID: f.business.ID, WorkerID: f.worker.ID, DurationMin: 481})
	assertCode(t, err, httperr.CodeValidation)

	_, err = uc.Execute(ctx, FindSlotsInput{BusinessID: f.business.ID, WorkerID: f.otherWorker.ID, DurationMin: 30})
	assertCode(t, err, httperr.CodeNotInBusiness)
}

func TestFindSlots_ClosedWeekdaysAreSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// only Wednesdays are open
	hours := []models.OpeningHours{{Weekday: int(time.Wednesday), Open: "10:00", Close: "12:00"}}
	mustNoErr(t, f.store.ReplaceOpeningHours(ctx, f.business.ID, hours))

	out, err := f.findSlots(testNow).Execute(ctx, FindSlotsInput{
		BusinessID:  f.business.ID,
		WorkerID:    f.worker.ID,
		DurationMin: 60,
		Limit:       10,
	})
	mustNoErr(t, err)

	// 2026-03-04 and 2026-03-11 fall inside the 14 day lookahead
	want := []time.Time{}
	for _, day := range []int{2, 9} {
		want = append(want, at(day, 10, 0), at(day, 10, 20), at(day, 10, 40), at(day, 11, 0))
	}
	assertTimes(t, out.Slots, want...)
}

// ======================================================
// CHECK SLOT / DAY SCHEDULE
// ======================================================

func TestCheckSlot_ReportsConflicts(t *testing.T) {
	f := newFixture(t)
	f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 60)
	f.addBlock(t, nil, at(1, 10, 0), at(1, 11, 0), true)

	uc := NewCheckSlot(f.store)

	res, err := uc.Execute(context.Background(), CheckSlotInput{
		BusinessID: f.business.ID, WorkerID: f.worker.ID, StartAt: at(1, 9, 30), DurationMin: 60,
	})
	mustNoErr(t, err)
	if res.Free {
		t.Fatalf("slot reported free")
	}
	want := []BusyInterval{
		{Kind: "appointment", StartAt: at(1, 9, 0), EndAt: at(1, 10, 0)},
		{Kind: "block", StartAt: at(1, 10, 0), EndAt: at(1, 11, 0)},
	}
	if len(res.Conflicts) != len(want) {
		t.Fatalf("conflicts = %+v", res.Conflicts)
	}
	for i, c := range res.Conflicts {
		if c.Kind != want[i].Kind || !c.StartAt.Equal(want[i].StartAt) || !c.EndAt.Equal(want[i].EndAt) {
			t.Fatalf("conflict %d = %+v, want %+v", i, c, want[i])
		}
	}

	res, err = uc.Execute(context.Background(), CheckSlotInput{
		BusinessID: f.business.ID, WorkerID: f.worker.ID, StartAt: at(1, 11, 0), DurationMin: 30,
	})
	mustNoErr(t, err)
	if !res.Free || !res.EndAt.Equal(at(1, 11, 30)) {
		t.Fatalf("res = %+v", res)
	}

	_, err = uc.Execute(context.Background(), CheckSlotInput{BusinessID: f.business.ID, WorkerID: f.worker.ID})
	assertCode(t, err, httperr.CodeValidation)
}

func TestDaySchedule_IncludesRecordsCrossingMidnight(t *testing.T) {
	f := newFixture(t)

	late := f.mustBook(t, f.client.ID, f.worker.ID, at(0, 23, 30), 60)
	morning := f.mustBook(t, f.client2.ID, f.worker.ID, at(1, 9, 0), 30)
	mustNoErr(t, f.setStatus(morning.ID, "canceled"))
	f.mustBook(t, f.client2.ID, f.worker.ID, at(2, 0, 0), 30)
	f.addBlock(t, nil, at(1, 12, 0), at(1, 13, 0), true)

	out, err := NewGetDaySchedule(f.store, f.policy).Execute(context.Background(), DayScheduleInput{
		BusinessID: f.business.ID,
		WorkerID:   f.worker.ID,
		Date:       "2026-03-03",
	})
	mustNoErr(t, err)

	if len(out.Appointments) != 2 || out.Appointments[0].ID != late.ID || out.Appointments[1].ID != morning.ID {
		t.Fatalf("appointments = %+v", out.Appointments)
	}
	if len(out.Blocks) != 1 {
		t.Fatalf("blocks = %+v", out.Blocks)
	}
	if !out.Open || !out.WorkStart.Equal(at(1, 8, 0)) || !out.WorkEnd.Equal(at(1, 20, 0)) {
		t.Fatalf("window = %v %v %v", out.Open, out.WorkStart, out.WorkEnd)
	}

	_, err = NewGetDaySchedule(f.store, f.policy).Execute(context.Background(), DayScheduleInput{
		BusinessID: f.business.ID,
		WorkerID:   f.worker.ID,
		Date:       "03/03/2026",
	})
	assertCode(t, err, httperr.CodeValidation)
}

func TestDaySchedule_BusinessTimezone(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.store.GetBusinessByID(ctx, f.business.ID)
	mustNoErr(t, err)
	b.Timezone = "America/Sao_Paulo"
	mustNoErr(t, f.store.SaveBusiness(ctx, b))

	// 02:00 UTC on the 4th is 23:00 on the 3rd in Sao Paulo (UTC-3)
	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(2, 2, 0), 30)

	out, err := NewGetDaySchedule(f.store, f.policy).Execute(ctx, DayScheduleInput{
		BusinessID: f.business.ID,
		WorkerID:   f.worker.ID,
		Date:       "2026-03-03",
	})
	mustNoErr(t, err)
	if len(out.Appointments) != 1 || out.Appointments[0].ID != ap.ID {
		t.Fatalf("appointments = %+v", out.Appointments)
	}
	if out.Timezone != "America/Sao_Paulo" {
		t.Fatalf("timezone = %q", out.Timezone)
	}
}

// ======================================================
// LISTING / STATS
// ======================================================

func TestListMyAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.mustBook(t, f.client.ID, f.worker.ID, at(2, 9, 0), 30)
	b := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 30)
	f.mustBook(t, f.client2.ID, f.worker.ID, at(3, 9, 0), 30)
	mustNoErr(t, f.setStatus(a.ID, "canceled"))

	uc := NewListMyAppointments(f.store)

	all, err := uc.Execute(ctx, f.business.ID, f.client.ID, "")
	mustNoErr(t, err)
	if len(all) != 2 || all[0].ID != b.ID || all[1].ID != a.ID {
		t.Fatalf("all = %+v", all)
	}

	canceled, err := uc.Execute(ctx, f.business.ID, f.client.ID, "canceled")
	mustNoErr(t, err)
	if len(canceled) != 1 || canceled[0].ID != a.ID {
		t.Fatalf("canceled = %+v", canceled)
	}

	_, err = uc.Execute(ctx, f.business.ID, f.client.ID, "later")
	assertCode(t, err, httperr.CodeValidation)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 30)
	b := f.mustBook(t, f.client2.ID, f.worker.ID, at(2, 9, 0), 30)
	c := f.mustBook(t, f.client.ID, f.worker.ID, at(3, 9, 0), 30)
	mustNoErr(t, f.setStatus(b.ID, "canceled"))
	mustNoErr(t, f.setStatus(c.ID, "completed"))

	uc := NewGetStats(f.store)
	uc.now = func() time.Time { return testNow }

	st, err := uc.Execute(ctx, StatsInput{BusinessID: f.business.ID})
	mustNoErr(t, err)

	want := map[string]int64{"confirmed": 1, "canceled": 1, "completed": 1, "no_show": 0}
	for k, v := range want {
		if st.ByStatus[k] != v {
			t.Fatalf("by_status[%s] = %d, want %d", k, st.ByStatus[k], v)
		}
	}
	if st.Total != 3 || st.UpcomingConfirmed != 1 || st.UpcomingClients != 1 {
		t.Fatalf("stats = %+v", st)
	}

	// once the confirmed one is under way it is no longer upcoming for either figure
	uc.now = func() time.Time { return at(1, 9, 15) }
	st, err = uc.Execute(ctx, StatsInput{BusinessID: f.business.ID})
	mustNoErr(t, err)
	if st.UpcomingConfirmed != 0 || st.UpcomingClients != 0 {
		t.Fatalf("in-progress stats = %+v", st)
	}

	from, to := at(2, 0, 0), at(3, 0, 0)
	st, err = uc.Execute(ctx, StatsInput{BusinessID: f.business.ID, From: &from, To: &to})
	mustNoErr(t, err)
	if st.Total != 1 || st.ByStatus["canceled"] != 1 {
		t.Fatalf("windowed stats = %+v", st)
	}

	_, err = uc.Execute(ctx, StatsInput{BusinessID: f.business.ID, From: &to, To: &from})
	assertCode(t, err, httperr.CodeValidation)

	// other tenants see nothing
	st, err = uc.Execute(ctx, StatsInput{BusinessID: f.otherBusiness.ID})
	mustNoErr(t, err)
	if st.Total != 0 {
		t.Fatalf("other business total = %d", st.Total)
	}
}
