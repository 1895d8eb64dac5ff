package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/craftingshard/tour-website-sub000/models"
	"github.com/craftingshard/tour-website-sub000/utils"
)

// Error kinds surfaced by the ledger. Handlers map these to HTTP codes;
// the messages double as the client-visible reason strings.
var (
	ErrInvalidDate      = errors.New("start date is missing or invalid")
	ErrPastDate         = errors.New("start date cannot be in the past")
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrDuplicateBooking = errors.New("an active booking already exists for this date")
	ErrNothingToCancel  = errors.New("no cancellable booking found")
)

func genID() string {
	return utils.GenerateRandomDigitString(22)
}

// ValidateDates enforces the temporal invariants on a booking request, in
// order: unparseable start, past start (midnight-truncated, today allowed),
// then range ordering. endMs == 0 means no end date was given.
func ValidateDates(startMs, endMs int64, now time.Time) error {
	if startMs <= 0 {
		return ErrInvalidDate
	}

	start := time.UnixMilli(startMs)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	if startDay.Before(today) {
		return ErrPastDate
	}

	if endMs != 0 && endMs <= startMs {
		return ErrInvalidDateRange
	}
	return nil
}

// HasActiveDuplicate scans the caller's bookings for one with the same start
// date still in an active state. Cancelled and refunded bookings do not
// block a re-booking for the same date.
func HasActiveDuplicate(existing []models.Booking, startMs int64) bool {
	for _, b := range existing {
		if b.StartDate == startMs && b.Status.Active() {
			return true
		}
	}
	return false
}

// LatestOpenBooking picks, among the given bookings, the most recently
// created one that is neither cancelled nor completed. This is the booking
// a customer cancellation applies to.
func LatestOpenBooking(list []models.Booking) (models.Booking, bool) {
	var best models.Booking
	found := false
	for _, b := range list {
		if b.Status == models.StatusCancelled || b.Status == models.StatusCompleted {
			continue
		}
		if !found || b.CreatedAt > best.CreatedAt {
			best = b
			found = true
		}
	}
	return best, found
}

// InitialStatus is "paid" when the customer reports pre-payment, otherwise
// "pending".
func InitialStatus(paid bool) models.BookingStatus {
	if paid {
		return models.StatusPaid
	}
	return models.StatusPending
}

func validMethod(m string) bool {
	switch m {
	case models.MethodCash, models.MethodBankTransfer, models.MethodCard:
		return true
	}
	return false
}

// Notifier is the injected side-effect port for booking creation.
// Implementations must never fail the booking: errors stay inside.
type Notifier interface {
	BookingCreated(ctx context.Context, b models.Booking, tour models.Tour)
}

// Ledger owns booking creation and cancellation plus the in-memory set of
// tours the UI shows as already booked per user. It is created once in main
// and passed by reference, never held as package state.
type Ledger struct {
	notifier Notifier

	mu     sync.Mutex
	booked map[string]map[string]bool // userId -> tourId set
}

func NewLedger(n Notifier) *Ledger {
	return &Ledger{
		notifier: n,
		booked:   make(map[string]map[string]bool),
	}
}

func (l *Ledger) markBooked(userID, tourID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.booked[userID] == nil {
		l.booked[userID] = make(map[string]bool)
	}
	l.booked[userID][tourID] = true
}

func (l *Ledger) unmarkBooked(userID, tourID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.booked[userID], tourID)
}

// BookedTours returns the tour ids the user currently holds a booking for.
func (l *Ledger) BookedTours(userID string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.booked[userID]))
	for id := range l.booked[userID] {
		out = append(out, id)
	}
	return out
}
