package staff

import (
	"testing"

	"github.com/craftingshard/tour-website-sub000/models"
)

func TestCanTransition(t *testing.T) {
	all := []models.BookingStatus{
		models.StatusPending, models.StatusPaid, models.StatusConfirmed,
		models.StatusCancelled, models.StatusCompleted, models.StatusRefunded,
	}

	allowed := map[[2]models.BookingStatus]bool{
		{models.StatusPending, models.StatusPaid}:        true,
		{models.StatusPaid, models.StatusConfirmed}:     true,
		{models.StatusPending, models.StatusCancelled}:  true,
		{models.StatusPaid, models.StatusCancelled}:     true,
		{models.StatusConfirmed, models.StatusCancelled}: true,
		{models.StatusConfirmed, models.StatusCompleted}: true,
		{models.StatusPaid, models.StatusRefunded}:      true,
		{models.StatusConfirmed, models.StatusRefunded}: true,
		{models.StatusCompleted, models.StatusRefunded}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]models.BookingStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}

	if CanTransition(models.StatusPending, "shipped") {
		t.Error("unknown target status must be rejected")
	}
}

func TestValidRefundReason(t *testing.T) {
	for _, reason := range []string{
		models.RefundCustomerRequest, models.RefundDuplicate,
		models.RefundTourCancelled, models.RefundOther,
	} {
		if !ValidRefundReason(reason) {
			t.Errorf("reason %q should be valid", reason)
		}
	}
	if ValidRefundReason("because") {
		t.Error("free-form reason must be rejected")
	}
	if ValidRefundReason("") {
		t.Error("empty reason must be rejected")
	}
}
