package staff

import "github.com/craftingshard/tour-website-sub000/models"

// CanTransition encodes the booking state machine:
//
//	pending -> paid
//	paid    -> confirmed
//	pending|paid|confirmed -> cancelled
//	confirmed -> completed
//	paid|confirmed|completed -> refunded
//
// Everything else is rejected. Terminal states admit no staff transition
// except refund-from-completed.
func CanTransition(from, to models.BookingStatus) bool {
	switch to {
	case models.StatusPaid:
		return from == models.StatusPending
	case models.StatusConfirmed:
		return from == models.StatusPaid
	case models.StatusCancelled:
		return from == models.StatusPending || from == models.StatusPaid || from == models.StatusConfirmed
	case models.StatusCompleted:
		return from == models.StatusConfirmed
	case models.StatusRefunded:
		return from == models.StatusPaid || from == models.StatusConfirmed || from == models.StatusCompleted
	default:
		return false
	}
}

// ValidRefundReason guards the refund form's reason enum.
func ValidRefundReason(reason string) bool {
	switch reason {
	case models.RefundCustomerRequest, models.RefundDuplicate, models.RefundTourCancelled, models.RefundOther:
		return true
	}
	return false
}
