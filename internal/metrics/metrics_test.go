package metrics

import (
	"errors"
	"testing"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
)

func TestOutcome(t *testing.T) {
	if got := Outcome(nil); got != "ok" {
		t.Fatalf("Outcome(nil) = %q, want ok", got)
	}
	if got := Outcome(httperr.ErrBusiness(httperr.CodeSlotTaken)); got != httperr.CodeSlotTaken {
		t.Fatalf("Outcome(business) = %q, want %q", got, httperr.CodeSlotTaken)
	}
	if got := Outcome(errors.New("boom")); got != "error" {
		t.Fatalf("Outcome(plain) = %q, want error", got)
	}
}
