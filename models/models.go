package models

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusPaid      BookingStatus = "paid"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
	StatusRefunded  BookingStatus = "refunded"
)

// Active reports whether the booking still blocks a new booking for the
// same user, tour and start date. Cancelled and refunded bookings do not.
func (s BookingStatus) Active() bool {
	switch s {
	case StatusPending, StatusPaid, StatusConfirmed, StatusCompleted:
		return true
	default:
		return false
	}
}

// Payment methods accepted by the ledger.
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodCard         = "card"
)

type Tour struct {
	ID         string  `json:"id" bson:"id"`
	Title      string  `json:"title" bson:"title"`
	Location   string  `json:"location" bson:"location"`
	Price      int64   `json:"price" bson:"price"`
	Rating     float64 `json:"rating" bson:"rating"` // denormalized, aggregator-owned
	Approved   bool    `json:"approved" bson:"approved"`
	ApprovedBy string  `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt int64   `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	CreatedBy  string  `json:"createdBy" bson:"createdBy"`
	Hot        bool    `json:"hot,omitempty" bson:"hot,omitempty"`
	Featured   bool    `json:"featured,omitempty" bson:"featured,omitempty"`
	Summary    string  `json:"summary,omitempty" bson:"summary,omitempty"`
	CreatedAt  int64   `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64   `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

type Review struct {
	ID        string  `json:"id" bson:"id"`
	TourID    string  `json:"tourId" bson:"tourId"`
	UserID    string  `json:"userId" bson:"userId"`
	UserName  string  `json:"userName" bson:"userName"`
	Rating    float64 `json:"rating" bson:"rating"` // 1-10, half-point steps
	Comment   string  `json:"comment" bson:"comment"`
	CreatedAt int64   `json:"createdAt" bson:"createdAt"` // epoch ms
}

type Booking struct {
	ID            string        `json:"id" bson:"id"`
	UserID        string        `json:"userId" bson:"userId"`
	TourID        string        `json:"tourId" bson:"tourId"`
	CustomerPhone string        `json:"customerPhone,omitempty" bson:"customerPhone,omitempty"`
	Amount        int64         `json:"amount" bson:"amount"`
	Method        string        `json:"method" bson:"method"`
	People        int           `json:"people" bson:"people"`
	StartDate     int64         `json:"startDate" bson:"startDate"`         // epoch ms
	EndDate       int64         `json:"endDate,omitempty" bson:"endDate,omitempty"`
	Paid          bool          `json:"paid" bson:"paid"`
	Status        BookingStatus `json:"status" bson:"status"`
	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
	BankName      string        `json:"bankName,omitempty" bson:"bankName,omitempty"`
	BankRef       string        `json:"bankRef,omitempty" bson:"bankRef,omitempty"`
	ConfirmedBy   string        `json:"confirmedBy,omitempty" bson:"confirmedBy,omitempty"`
	ConfirmedAt   int64         `json:"confirmedAt,omitempty" bson:"confirmedAt,omitempty"`
	RefundAmount  int64         `json:"refundAmount,omitempty" bson:"refundAmount,omitempty"`
	RefundDate    int64         `json:"refundDate,omitempty" bson:"refundDate,omitempty"`
	CreatedAt     int64         `json:"createdAt" bson:"createdAt"` // epoch ms
}

// Refund reasons mirror the staff refund form options.
const (
	RefundCustomerRequest = "customer_request"
	RefundDuplicate       = "duplicate"
	RefundTourCancelled   = "tour_cancelled"
	RefundOther           = "other"
)

type Refund struct {
	ID        string `json:"id" bson:"id"`
	BookingID string `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	Amount    int64  `json:"amount" bson:"amount"`
	Reason    string `json:"reason" bson:"reason"`
	Method    string `json:"method" bson:"method"`
	Reference string `json:"reference,omitempty" bson:"reference,omitempty"`
	Notes     string `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy string `json:"createdBy" bson:"createdBy"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

type Notification struct {
	ID        string `json:"id" bson:"id"`
	Role      string `json:"role,omitempty" bson:"role,omitempty"`     // role-addressed
	UserID    string `json:"userId,omitempty" bson:"userId,omitempty"` // user-addressed
	Title     string `json:"title" bson:"title"`
	Message   string `json:"message" bson:"message"`
	TourID    string `json:"tourId,omitempty" bson:"tourId,omitempty"`
	BookingID string `json:"bookingId,omitempty" bson:"bookingId,omitempty"`
	Read      bool   `json:"read" bson:"read"`
	CreatedAt int64  `json:"createdAt" bson:"createdAt"`
}

// AdminUser is the directory record consulted by access control.
type AdminUser struct {
	UID        string `json:"uid" bson:"uid"`
	Role       string `json:"role" bson:"role"`
	Active     bool   `json:"active" bson:"active"`
	Department string `json:"department,omitempty" bson:"department,omitempty"`
}

type User struct {
	UserID   string `json:"userid" bson:"userid"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"-" bson:"password"`
}

// ReviewEvent is published on the review channel for the rating worker.
type ReviewEvent struct {
	TourID   string `json:"tourId"`
	ReviewID string `json:"reviewId"`
	Method   string `json:"method"` // POST or DELETE
}
