package booking

import (
	"testing"
	"time"

	"github.com/craftingshard/tour-website-sub000/models"
)

var now = time.Date(2026, 8, 27, 14, 30, 0, 0, time.UTC)

func ms(t time.Time) int64 { return t.UnixMilli() }

func TestValidateDates(t *testing.T) {
	today := time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	cases := []struct {
		name    string
		startMs int64
		endMs   int64
		want    error
	}{
		{"missing start", 0, 0, ErrInvalidDate},
		{"negative start", -5, 0, ErrInvalidDate},
		{"yesterday", ms(yesterday), 0, ErrPastDate},
		{"today is allowed", ms(today), 0, nil},
		{"today early morning", ms(time.Date(2026, 8, 27, 0, 0, 1, 0, time.UTC)), 0, nil},
		{"tomorrow", ms(tomorrow), 0, nil},
		{"end equals start", ms(tomorrow), ms(tomorrow), ErrInvalidDateRange},
		{"end before start", ms(tomorrow), ms(today), ErrInvalidDateRange},
		{"end one day later", ms(tomorrow), ms(tomorrow.AddDate(0, 0, 1)), nil},
		{"past date wins over bad range", ms(yesterday), ms(yesterday.AddDate(0, 0, -1)), ErrPastDate},
	}

	for _, tc := range cases {
		if got := ValidateDates(tc.startMs, tc.endMs, now); got != tc.want {
			t.Errorf("%s: ValidateDates = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestHasActiveDuplicate(t *testing.T) {
	start := ms(now.AddDate(0, 0, 3))
	other := ms(now.AddDate(0, 0, 4))

	mk := func(status models.BookingStatus, startMs int64) models.Booking {
		return models.Booking{ID: "b", StartDate: startMs, Status: status}
	}

	if !HasActiveDuplicate([]models.Booking{mk(models.StatusPending, start)}, start) {
		t.Error("pending booking for same date should block")
	}
	if !HasActiveDuplicate([]models.Booking{mk(models.StatusCompleted, start)}, start) {
		t.Error("completed booking for same date should block")
	}
	if HasActiveDuplicate([]models.Booking{mk(models.StatusCancelled, start)}, start) {
		t.Error("cancelled booking must not block a re-booking")
	}
	if HasActiveDuplicate([]models.Booking{mk(models.StatusRefunded, start)}, start) {
		t.Error("refunded booking must not block a re-booking")
	}
	if HasActiveDuplicate([]models.Booking{mk(models.StatusConfirmed, other)}, start) {
		t.Error("booking for a different date must not block")
	}
	if HasActiveDuplicate(nil, start) {
		t.Error("no bookings, no duplicate")
	}
}

func TestLatestOpenBooking(t *testing.T) {
	older := models.Booking{ID: "old", Status: models.StatusConfirmed, CreatedAt: 100}
	newer := models.Booking{ID: "new", Status: models.StatusPending, CreatedAt: 200}
	done := models.Booking{ID: "done", Status: models.StatusCompleted, CreatedAt: 300}
	gone := models.Booking{ID: "gone", Status: models.StatusCancelled, CreatedAt: 400}

	got, found := LatestOpenBooking([]models.Booking{older, newer, done, gone})
	if !found || got.ID != "new" {
		t.Fatalf("expected newest open booking %q, got %q (found=%v)", "new", got.ID, found)
	}

	// Order independence.
	got, found = LatestOpenBooking([]models.Booking{gone, done, newer, older})
	if !found || got.ID != "new" {
		t.Fatalf("expected %q regardless of order, got %q", "new", got.ID)
	}

	if _, found := LatestOpenBooking([]models.Booking{done, gone}); found {
		t.Error("terminal-only bookings should yield nothing to cancel")
	}
	if _, found := LatestOpenBooking(nil); found {
		t.Error("empty list should yield nothing to cancel")
	}
}

func TestInitialStatus(t *testing.T) {
	if InitialStatus(true) != models.StatusPaid {
		t.Error("pre-paid booking should start as paid")
	}
	if InitialStatus(false) != models.StatusPending {
		t.Error("unpaid booking should start as pending")
	}
}

func TestLedgerBookedSet(t *testing.T) {
	l := NewLedger(nil)
	l.markBooked("u1", "t1")
	l.markBooked("u1", "t2")
	l.unmarkBooked("u1", "t1")

	got := l.BookedTours("u1")
	if len(got) != 1 || got[0] != "t2" {
		t.Fatalf("expected [t2], got %v", got)
	}
	if len(l.BookedTours("u2")) != 0 {
		t.Error("unknown user should have empty booked set")
	}
}
