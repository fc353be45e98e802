package appointment

import (
	"context"
	"strings"
	"testing"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
)

func (f *fixture) setStatus(ap uint, status string) error {
	_, err := f.changeStatus.Execute(context.Background(), ChangeStatusInput{
		BusinessID:    f.business.ID,
		ActorID:       f.admin.ID,
		AppointmentID: ap,
		Status:        status,
	})
	return err
}

// ======================================================
// CLIENT CANCEL
// ======================================================

func TestCancel_CutoffBoundary(t *testing.T) {
	f := newFixture(t)

	// exactly 24h ahead of now: too late
	edge := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 7, 0), 30)
	_, err := f.cancel.Execute(context.Background(), f.business.ID, f.client.ID, edge.ID)
	assertCode(t, err, httperr.CodeCannotCancelIn24h)

	later := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 7, 30), 30)
	ap, err := f.cancel.Execute(context.Background(), f.business.ID, f.client.ID, later.ID)
	mustNoErr(t, err)
	if ap.Status != string(domain.StatusCanceled) || ap.CanceledAt == nil {
		t.Fatalf("status = %q canceled_at = %v", ap.Status, ap.CanceledAt)
	}

	stored, err := f.store.GetAppointment(context.Background(), f.business.ID, later.ID)
	mustNoErr(t, err)
	if stored.Status != string(domain.StatusCanceled) {
		t.Fatalf("stored status = %q", stored.Status)
	}
}

func TestCancel_BusinessCutoffOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b, err := f.store.GetBusinessByID(ctx, f.business.ID)
	mustNoErr(t, err)
	b.CancelCutoffHours = 2
	mustNoErr(t, f.store.SaveBusiness(ctx, b))

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(0, 10, 0), 30)
	_, err = f.cancel.Execute(ctx, f.business.ID, f.client.ID, ap.ID)
	mustNoErr(t, err)
}

func TestCancel_OnlyConfirmed(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(3, 9, 0), 30)
	mustNoErr(t, f.setStatus(ap.ID, "completed"))

	_, err := f.cancel.Execute(context.Background(), f.business.ID, f.client.ID, ap.ID)
	assertCode(t, err, httperr.CodeOnlyConfirmedCancel)

	other := f.mustBook(t, f.client.ID, f.worker.ID, at(4, 9, 0), 30)
	_, err = f.cancel.Execute(context.Background(), f.business.ID, f.client.ID, other.ID)
	mustNoErr(t, err)
	_, err = f.cancel.Execute(context.Background(), f.business.ID, f.client.ID, other.ID)
	assertCode(t, err, httperr.CodeOnlyConfirmedCancel)
}

func TestCancel_ForeignAppointmentIsNotFound(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(3, 9, 0), 30)

	_, err := f.cancel.Execute(context.Background(), f.business.ID, f.client2.ID, ap.ID)
	assertCode(t, err, httperr.CodeNotFound)

	_, err = f.cancel.Execute(context.Background(), f.otherBusiness.ID, f.client.ID, ap.ID)
	assertCode(t, err, httperr.CodeNotFound)

	_, err = f.cancel.Execute(context.Background(), f.business.ID, f.client.ID, 9999)
	assertCode(t, err, httperr.CodeNotFound)
}

func TestCancel_Notifies(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(3, 9, 0), 30)
	_, err := f.cancel.Execute(context.Background(), f.business.ID, f.client.ID, ap.ID)
	mustNoErr(t, err)

	types := f.notifier.types()
	if len(types) != 2 || types[1] != notify.EventAppointmentCanceled {
		t.Fatalf("notifications = %v", types)
	}
	if by := f.notifier.msgs[1].Data["canceled_by"]; by != "client" {
		t.Fatalf("canceled_by = %v", by)
	}
}

// ======================================================
// ADMIN STATUS CHANGE
// ======================================================

func TestChangeStatus_AdminIgnoresCutoff(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(0, 8, 0), 30)
	mustNoErr(t, f.setStatus(ap.ID, "canceled"))

	types := f.notifier.types()
	if types[len(types)-1] != notify.EventAppointmentCanceled {
		t.Fatalf("notifications = %v", types)
	}
}

func TestChangeStatus_TimestampsFollowStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 30)

	mustNoErr(t, f.setStatus(ap.ID, "completed"))
	stored, err := f.store.GetAppointment(ctx, f.business.ID, ap.ID)
	mustNoErr(t, err)
	if stored.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}

	mustNoErr(t, f.setStatus(ap.ID, "confirmed"))
	stored, err = f.store.GetAppointment(ctx, f.business.ID, ap.ID)
	mustNoErr(t, err)
	if stored.Status != "confirmed" || stored.CompletedAt != nil || stored.CanceledAt != nil {
		t.Fatalf("reconfirmed = %+v", stored)
	}
}

func TestChangeStatus_ReconfirmIntoTakenSlot(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 60)
	mustNoErr(t, f.setStatus(ap.ID, "canceled"))

	f.mustBook(t, f.client2.ID, f.worker.ID, at(1, 9, 30), 30)

	err := f.setStatus(ap.ID, "confirmed")
	assertCode(t, err, httperr.CodeSlotTaken)

	stored, err := f.store.GetAppointment(context.Background(), f.business.ID, ap.ID)
	mustNoErr(t, err)
	if stored.Status != "canceled" {
		t.Fatalf("status = %q, want canceled", stored.Status)
	}
	confirmedNeverOverlap(t, f, f.worker.ID)
}

func TestChangeStatus_ReconfirmIntoBlock(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 60)
	mustNoErr(t, f.setStatus(ap.ID, "no_show"))
	f.addBlock(t, &f.worker.ID, at(1, 9, 45), at(1, 11, 0), true)

	assertCode(t, f.setStatus(ap.ID, "confirmed"), httperr.CodeSlotTaken)
}

func TestChangeStatus_ReconfirmFreeSlot(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 60)
	mustNoErr(t, f.setStatus(ap.ID, "canceled"))
	f.mustBook(t, f.client2.ID, f.worker.ID, at(1, 10, 0), 30)

	mustNoErr(t, f.setStatus(ap.ID, "confirmed"))
}

func TestChangeStatus_SameStatusIsNoop(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 60)
	audits := len(f.auditor.events)

	mustNoErr(t, f.setStatus(ap.ID, "confirmed"))
	if len(f.auditor.events) != audits {
		t.Fatalf("no-op change was audited")
	}
}

func TestChangeStatus_UpdatesNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 60)
	notes := "client called, running late"

	_, err := f.changeStatus.Execute(ctx, ChangeStatusInput{
		BusinessID:    f.business.ID,
		ActorID:       f.admin.ID,
		AppointmentID: ap.ID,
		Status:        "completed",
		Notes:         &notes,
	})
	mustNoErr(t, err)

	stored, err := f.store.GetAppointment(ctx, f.business.ID, ap.ID)
	mustNoErr(t, err)
	if stored.Notes != notes || stored.Status != "completed" {
		t.Fatalf("stored = %q / %q", stored.Status, stored.Notes)
	}

	long := strings.Repeat("x", 1001)
	_, err = f.changeStatus.Execute(ctx, ChangeStatusInput{
		BusinessID:    f.business.ID,
		AppointmentID: ap.ID,
		Status:        "completed",
		Notes:         &long,
	})
	assertCode(t, err, httperr.CodeValidation)
}

func TestChangeStatus_InvalidStatusAndMissing(t *testing.T) {
	f := newFixture(t)

	ap := f.mustBook(t, f.client.ID, f.worker.ID, at(1, 9, 0), 60)

	assertCode(t, f.setStatus(ap.ID, "pending"), httperr.CodeValidation)
	assertCode(t, f.setStatus(9999, "canceled"), httperr.CodeNotFound)

	_, err := f.changeStatus.Execute(context.Background(), ChangeStatusInput{
		BusinessID:    f.otherBusiness.ID,
		AppointmentID: ap.ID,
		Status:        "canceled",
	})
	assertCode(t, err, httperr.CodeNotFound)
}
